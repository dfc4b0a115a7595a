// Package admin implements the operator command that creates the first
// administrator account.
package admin

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/dmitrijs2005/gophvote/internal/common"
	"github.com/dmitrijs2005/gophvote/internal/server/models"
)

var ErrPasswordMismatch = errors.New("passwords do not match")

type Bootstrapper interface {
	BootstrapAdmin(ctx context.Context, username, email, password string) (*models.User, error)
}

// Run prompts for the account details on in/out and makes the user an
// administrator, creating it first when needed.
func Run(ctx context.Context, in io.Reader, out io.Writer, users Bootstrapper) error {
	reader := bufio.NewReader(in)

	username, err := GetSimpleText(reader, "Admin username", out)
	if err != nil {
		return err
	}
	email, err := GetSimpleText(reader, "Email (ignored if the user exists)", out)
	if err != nil {
		return err
	}

	password, err := GetPassword("Password", out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	confirm, err := GetPassword("Repeat password", out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)

	if !bytes.Equal(password, confirm) {
		return ErrPasswordMismatch
	}

	u, err := users.BootstrapAdmin(ctx, username, email, string(password))
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(out, "%s is now an administrator (roles: %v)\n", u.Username, u.Roles)
	return err
}
