package service

import (
	"context"
	"errors"
	"strings"

	"github.com/iliyamo/match-ticket-booking/internal/model"
	"github.com/iliyamo/match-ticket-booking/internal/repository"
	"github.com/iliyamo/match-ticket-booking/internal/utils"
)

// Credentials checks admin logins.  It never logs or returns passwords.
type Credentials struct {
	store     repository.AdminStore
	cost      int
	dummyHash string
}

// NewCredentials hashes a throwaway password at cost so unknown usernames
// take as long to reject as wrong passwords.
func NewCredentials(store repository.AdminStore, cost int) *Credentials {
	if store == nil {
		panic("nil store passed to NewCredentials")
	}
	dummy, err := utils.HashPassword("not-a-real-password", cost)
	if err != nil {
		panic(err)
	}
	return &Credentials{store: store, cost: utils.NormalizeCost(cost), dummyHash: dummy}
}

// Verify reports whether password belongs to username.  Any lookup error
// other than an unknown user is returned with ok=false.
func (c *Credentials) Verify(ctx context.Context, username, password string) (model.AdminIdentity, bool, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return model.AdminIdentity{}, false, nil
	}
	u, err := c.store.GetAdminByUsername(ctx, username)
	if errors.Is(err, repository.ErrNotFound) {
		utils.VerifyPassword(c.dummyHash, password)
		return model.AdminIdentity{}, false, nil
	}
	if err != nil {
		return model.AdminIdentity{}, false, err
	}
	if !utils.VerifyPassword(u.PasswordHash, password) {
		return model.AdminIdentity{}, false, nil
	}
	return u.Identity(), true, nil
}

// Provision creates an admin account.  It is reachable only from the
// provisioning CLI and the startup bootstrap, never from the HTTP API.
func (c *Credentials) Provision(ctx context.Context, username, password, name string) (model.AdminIdentity, error) {
	username = strings.TrimSpace(username)
	name = strings.TrimSpace(name)
	switch {
	case username == "":
		return model.AdminIdentity{}, invalidf("username is required")
	case len(password) < 8:
		return model.AdminIdentity{}, invalidf("password must be at least 8 characters")
	case name == "":
		name = username
	}
	hash, err := utils.HashPassword(password, c.cost)
	if err != nil {
		return model.AdminIdentity{}, invalidf("%v", err)
	}
	u := model.AdminUser{Username: username, PasswordHash: hash, Name: name}
	if err := c.store.CreateAdmin(ctx, &u); err != nil {
		return model.AdminIdentity{}, storeErr(err, "admin", username)
	}
	return u.Identity(), nil
}

// EnsureAdmin provisions username unless it already exists.
func (c *Credentials) EnsureAdmin(ctx context.Context, username, password, name string) (created bool, err error) {
	if _, err := c.store.GetAdminByUsername(ctx, username); err == nil {
		return false, nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return false, err
	}
	if _, err := c.Provision(ctx, username, password, name); err != nil {
		if errors.Is(err, ErrConflict) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
