// Package staff manages the staff accounts of a store. Only a mama may
// change accounts, and nobody may delete or deactivate themselves.
package staff

import (
	"context"
	"strings"

	"github.com/angelmondragon/bottle-amigo/internal/bff"
	"github.com/angelmondragon/bottle-amigo/pkg/auth/session"
	"github.com/angelmondragon/bottle-amigo/pkg/enums"
	pkgerrors "github.com/angelmondragon/bottle-amigo/pkg/errors"
	"github.com/angelmondragon/bottle-amigo/pkg/i18n"
	"github.com/angelmondragon/bottle-amigo/pkg/logger"
)

type API interface {
	StaffAccounts(ctx context.Context, storeID string) ([]bff.StaffAccount, error)
	CreateStaffAccount(ctx context.Context, req bff.StaffAccountRequest) (*bff.StaffAccount, error)
	UpdateStaffAccount(ctx context.Context, accountID string, req bff.StaffAccountRequest) error
	DeleteStaffAccount(ctx context.Context, storeID, accountID string) error
	ToggleStaffAccount(ctx context.Context, storeID, accountID string) (bool, error)
}

type Service interface {
	List(ctx context.Context, actor *session.Session) ([]Account, error)
	Create(ctx context.Context, actor *session.Session, in Input) (*bff.StaffAccount, error)
	Update(ctx context.Context, actor *session.Session, accountID string, in Input) error
	Delete(ctx context.Context, actor *session.Session, account Ref) (string, error)
	Toggle(ctx context.Context, actor *session.Session, account Ref) (bool, string, error)
}

// Account is a staff account decorated for the account list.
type Account struct {
	bff.StaffAccount
	RoleLabel string
	IsSelf    bool
}

// CanDelete reports whether the delete control is offered.
func (a Account) CanDelete() bool { return !a.IsSelf }

// CanToggle reports whether the activate/deactivate control is offered.
func (a Account) CanToggle() bool { return !a.IsSelf }

// Input is the account form. PIN may be empty on update to keep the old one.
type Input struct {
	Name string
	Role enums.StaffRole
	PIN  string
}

// Ref names the account targeted by delete and toggle so toasts can use the name.
type Ref struct {
	ID   string
	Name string
}

type service struct {
	api  API
	logg *logger.Logger
}

func NewService(api API, logg *logger.Logger) (Service, error) {
	if api == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "bff api is required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{api: api, logg: logg}, nil
}

func (in Input) validate(requirePIN bool) error {
	if strings.TrimSpace(in.Name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, i18n.T(i18n.StaffNameRequired))
	}
	if requirePIN && strings.TrimSpace(in.PIN) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, i18n.T(i18n.StaffPINRequired))
	}
	if !in.Role.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, i18n.T(i18n.StaffRoleInvalid))
	}
	return nil
}

func (s *service) List(ctx context.Context, actor *session.Session) ([]Account, error) {
	if err := session.RequireMama(actor); err != nil {
		return nil, err
	}
	rows, err := s.api.StaffAccounts(ctx, actor.StoreID)
	if err != nil {
		return nil, bff.Wrap(err, i18n.T(i18n.ErrorLoadFailed))
	}
	out := make([]Account, 0, len(rows))
	for _, row := range rows {
		out = append(out, Account{
			StaffAccount: row,
			RoleLabel:    RoleLabel(row.Role),
			IsSelf:       row.ID == actor.SubjectID,
		})
	}
	return out, nil
}

func (s *service) Create(ctx context.Context, actor *session.Session, in Input) (*bff.StaffAccount, error) {
	if err := session.RequireMama(actor); err != nil {
		return nil, err
	}
	if err := in.validate(true); err != nil {
		return nil, err
	}
	account, err := s.api.CreateStaffAccount(ctx, bff.StaffAccountRequest{
		StoreID: actor.StoreID,
		Name:    strings.TrimSpace(in.Name),
		Role:    in.Role,
		PIN:     strings.TrimSpace(in.PIN),
	})
	if err != nil {
		return nil, bff.WrapServerMessage(err, i18n.T(i18n.ErrorGeneric))
	}
	ctx = s.logg.WithStoreID(ctx, actor.StoreID)
	s.logg.Info(s.logg.WithField(ctx, "account_id", account.ID), "staff.account.created")
	return account, nil
}

func (s *service) Update(ctx context.Context, actor *session.Session, accountID string, in Input) error {
	if err := session.RequireMama(actor); err != nil {
		return err
	}
	if strings.TrimSpace(accountID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "account id is required")
	}
	if err := in.validate(false); err != nil {
		return err
	}
	req := bff.StaffAccountRequest{
		StoreID: actor.StoreID,
		Name:    strings.TrimSpace(in.Name),
		Role:    in.Role,
	}
	if pin := strings.TrimSpace(in.PIN); pin != "" {
		req.PIN = pin
	}
	if err := s.api.UpdateStaffAccount(ctx, accountID, req); err != nil {
		return bff.WrapServerMessage(err, i18n.T(i18n.ErrorGeneric))
	}
	return nil
}

// Delete removes the account and returns the toast text.
func (s *service) Delete(ctx context.Context, actor *session.Session, account Ref) (string, error) {
	if err := session.RequireMama(actor); err != nil {
		return "", err
	}
	if account.ID == actor.SubjectID {
		return "", pkgerrors.New(pkgerrors.CodeForbidden, i18n.T(i18n.StaffSelfDelete))
	}
	if err := s.api.DeleteStaffAccount(ctx, actor.StoreID, account.ID); err != nil {
		return "", bff.WrapServerMessage(err, i18n.T(i18n.ErrorGeneric))
	}
	ctx = s.logg.WithStoreID(ctx, actor.StoreID)
	s.logg.Info(s.logg.WithField(ctx, "account_id", account.ID), "staff.account.deleted")
	return i18n.T(i18n.StaffDeleted, account.Name), nil
}

// Toggle flips the account's active flag and returns the new state with its toast text.
func (s *service) Toggle(ctx context.Context, actor *session.Session, account Ref) (bool, string, error) {
	if err := session.RequireMama(actor); err != nil {
		return false, "", err
	}
	if account.ID == actor.SubjectID {
		return false, "", pkgerrors.New(pkgerrors.CodeForbidden, i18n.T(i18n.StaffSelfDeactivate))
	}
	active, err := s.api.ToggleStaffAccount(ctx, actor.StoreID, account.ID)
	if err != nil {
		return false, "", bff.WrapServerMessage(err, i18n.T(i18n.ErrorGeneric))
	}
	return active, ToggleMessage(account.Name, active), nil
}

func ToggleMessage(name string, active bool) string {
	if active {
		return i18n.T(i18n.StaffActivated, name)
	}
	return i18n.T(i18n.StaffDeactivated, name)
}

func RoleLabel(role enums.StaffRole) string {
	switch role {
	case enums.StaffRoleMama:
		return i18n.T(i18n.LabelRoleMama)
	case enums.StaffRoleBartender:
		return i18n.T(i18n.LabelRoleBartender)
	}
	return string(role)
}
