// internal/service/options.go
package service

import "mapayl/internal/domain"

// CreateOption supplies an extra attribute to CreateUser or CreateSuperuser.
type CreateOption func(*createParams)

// createParams holds the caller-provided attributes. The privilege flags are
// pointers so that a default only applies when the caller left them unset.
type createParams struct {
	isStaff     *bool
	isSuperuser *bool
	isActive    *bool
	profile     *domain.Profile
}

// WithStaff sets the is_staff flag.
func WithStaff(v bool) CreateOption {
	return func(p *createParams) { p.isStaff = &v }
}

// WithSuperuser sets the is_superuser flag.
func WithSuperuser(v bool) CreateOption {
	return func(p *createParams) { p.isSuperuser = &v }
}

// WithActive sets the is_active flag; accounts are active by default.
func WithActive(v bool) CreateOption {
	return func(p *createParams) { p.isActive = &v }
}

// WithProfile sets the initial profile. Unset defaulted fields (kyc status,
// currency, verification date) still receive their defaults.
func WithProfile(profile domain.Profile) CreateOption {
	return func(p *createParams) { p.profile = &profile }
}

func newCreateParams(opts []CreateOption) *createParams {
	p := &createParams{}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func setDefault(field **bool, v bool) {
	if *field == nil {
		*field = &v
	}
}
