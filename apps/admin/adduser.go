package main

import (
	"context"

	"github.com/pkg/errors"

	"github.com/ustazbot/myhafiz/core"
	"github.com/ustazbot/myhafiz/core/user"
)

func (cli *commandLine) addUser(name, email, role, lang, pwd string) error {
	ctx := context.Background()
	email = core.CleanString(email, true /* lower */)

	if _, err := cli.usrSvc.GetByEmail(ctx, email); err == nil {
		return user.ErrEmailExists
	} else if errors.Cause(err) != user.ErrNotFound {
		return err
	}

	_, err := cli.usrSvc.Create(ctx, user.NewUser{
		Name:     core.CleanString(name),
		Email:    email,
		Role:     role,
		Language: core.CleanString(lang, true /* lower */),
		Password: pwd,
	})
	return err
}
