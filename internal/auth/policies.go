package auth

import (
	"fmt"
	"marketing-site/internal/logger"

	"github.com/casbin/casbin/v2"
)

const (
	// RoleAnonymous is the subject used for visitors without a session.
	RoleAnonymous = "anonymous"
	// RoleStaff may read leads and purge the content cache.
	RoleStaff = "staff"
)

// SeedDefaultPolicies ensures the baseline rules exist and grants the staff role to
// every configured admin. It is idempotent and runs on every start.
func SeedDefaultPolicies(e casbin.IEnforcer, admins []string, log logger.Logger) {
	log.Info("Seeding default authorization policies...")

	policies := [][]string{
		{RoleStaff, "/admin/*", "GET"},
		{RoleStaff, "/admin/*", "POST"},
	}
	for _, p := range policies {
		if has, _ := e.HasPolicy(p); !has {
			if _, err := e.AddPolicy(p); err != nil {
				log.Error(err, fmt.Sprintf("Failed to add policy %v", p))
			}
		}
	}

	for _, admin := range admins {
		if admin == "" {
			continue
		}
		if has, _ := e.HasRoleForUser(admin, RoleStaff); !has {
			if _, err := e.AddRoleForUser(admin, RoleStaff); err != nil {
				log.Error(err, fmt.Sprintf("Failed to grant %s to %s", RoleStaff, admin))
			}
		}
	}
	log.Info("Policy seeding complete.")
}
