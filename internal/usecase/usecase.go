package usecase

import (
	"github.com/mohae/deepcopy"
)

// UseCase is a deployment request in flight: identity, naming, template
// parameters, configuration and requester.
type UseCase struct {
	UseCaseID     string
	Name          string
	Description   string
	CfnParameters *ParameterMap
	Configuration *Configuration
	UserID        string
	ProviderName  string
	UseCaseType   Type
	TenantID      string
}

// ShortID returns the first eight characters of the use case id.
func (u *UseCase) ShortID() string {
	return ShortID(u.UseCaseID)
}

// ConfigRecordKey returns the config record key carried in the template
// parameters, if any.
func (u *UseCase) ConfigRecordKey() string {
	v, _ := u.CfnParameters.Get(ParamUseCaseConfigRecordKey)
	return v
}

// Clone returns a structurally equal copy that shares no mutable state
// with u.
func (u *UseCase) Clone() *UseCase {
	if u == nil {
		return nil
	}
	c := *u
	c.CfnParameters = u.CfnParameters.Clone()
	c.Configuration = u.Configuration.Clone()
	return &c
}

// WithConfiguration returns a copy of u carrying cfg.
func (u *UseCase) WithConfiguration(cfg *Configuration) *UseCase {
	c := u.Clone()
	c.Configuration = cfg
	return c
}

// Clone returns a deep copy of the configuration.
func (c *Configuration) Clone() *Configuration {
	if c == nil {
		return nil
	}
	cp, ok := deepcopy.Copy(c).(*Configuration)
	if !ok {
		return nil
	}
	return cp
}
