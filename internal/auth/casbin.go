package auth

import (
	"fmt"
	"marketing-site/internal/config"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"github.com/casbin/casbin/v2/persist"
	"github.com/casbin/casbin/v2/util"
	sqlxadapter "github.com/memwey/casbin-sqlx-adapter"
)

// modelText is the access model: role-based with path wildcards.
const modelText = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && keyMatch2(r.obj, p.obj) && (r.act == p.act || p.act == "*")
`

// NewEnforcer creates a Casbin enforcer whose policies live in the application
// database, in the casbin_rule table.
func NewEnforcer(cfg config.DBConfig) (*casbin.Enforcer, error) {
	driver := cfg.Driver
	if driver == "" {
		driver = "sqlite"
	}
	adapter := sqlxadapter.NewAdapterFromOptions(&sqlxadapter.AdapterOptions{
		DriverName:     driver,
		DataSourceName: cfg.DSN,
		TableName:      "casbin_rule",
	})
	return newEnforcer(adapter)
}

// NewMemoryEnforcer creates an enforcer without persistence, for tools and tests.
func NewMemoryEnforcer() (*casbin.Enforcer, error) {
	return newEnforcer(nil)
}

func newEnforcer(adapter persist.Adapter) (*casbin.Enforcer, error) {
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, fmt.Errorf("failed to parse access model: %w", err)
	}

	var e *casbin.Enforcer
	if adapter != nil {
		e, err = casbin.NewEnforcer(m, adapter)
	} else {
		e, err = casbin.NewEnforcer(m)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create enforcer: %w", err)
	}
	e.AddFunction("keyMatch2", util.KeyMatch2Func)

	if adapter != nil {
		if err := e.LoadPolicy(); err != nil {
			return nil, fmt.Errorf("failed to load policies: %w", err)
		}
	}
	return e, nil
}
