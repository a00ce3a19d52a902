// internal/api/handler/page.go
package handler

import (
	"bytes"
	"html/template"
	"net/http"

	"go.uber.org/zap"
)

// Page is one static informational page.
type Page struct {
	Path    string
	Title   string
	Heading string
	Body    string
}

// Pages lists the marketing pages in navigation order.
var Pages = []Page{
	{Path: "/", Title: "Home", Heading: "Peer-to-peer lending", Body: "Borrow from and lend to people directly."},
	{Path: "/borrow/", Title: "Borrow", Heading: "Borrow", Body: "Apply for a personal loan funded by individual investors."},
	{Path: "/invest/", Title: "Invest", Heading: "Invest", Body: "Lend to verified borrowers and earn interest on your money."},
	{Path: "/about-us/", Title: "About Us", Heading: "About us", Body: "A marketplace connecting borrowers and investors."},
	{Path: "/loan/", Title: "Loan", Heading: "Loans", Body: "Loan terms, rates and repayment schedules."},
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Page.Title}} | Mapayl</title>
</head>
<body>
<nav>{{range .Nav}}<a href="{{.Path}}">{{.Title}}</a> {{end}}</nav>
<h1>{{.Page.Heading}}</h1>
<p>{{.Page.Body}}</p>
</body>
</html>
`))

// PageHandler renders the static informational pages. None of them touch accounts.
type PageHandler struct {
	logger *zap.Logger
}

// NewPageHandler creates a new PageHandler.
func NewPageHandler(logger *zap.Logger) *PageHandler {
	return &PageHandler{logger: logger}
}

// Render returns a handler serving p.
func (h *PageHandler) Render(p Page) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var buf bytes.Buffer
		if err := pageTemplate.Execute(&buf, struct {
			Page Page
			Nav  []Page
		}{p, Pages}); err != nil {
			h.logger.Error("Failed to render page", zap.String("path", p.Path), zap.Error(err))
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(buf.Bytes())
	}
}
