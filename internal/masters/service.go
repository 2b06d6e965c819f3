package masters

import (
	"context"
	"sort"
	"strings"

	"github.com/angelmondragon/bottle-amigo/internal/bff"
	"github.com/angelmondragon/bottle-amigo/internal/bottles"
	"github.com/angelmondragon/bottle-amigo/pkg/auth/session"
	pkgerrors "github.com/angelmondragon/bottle-amigo/pkg/errors"
	"github.com/angelmondragon/bottle-amigo/pkg/i18n"
)

type API interface {
	BottleMasters(ctx context.Context, storeID string) ([]bff.BottleMaster, error)
	CreateBottleMaster(ctx context.Context, req bff.BottleMasterRequest) (*bff.BottleMaster, error)
	UpdateBottleMaster(ctx context.Context, masterID string, req bff.BottleMasterRequest) (*bff.BottleMaster, error)
	DeleteBottleMaster(ctx context.Context, storeID, masterID string) error
}

// Service manages the bottle catalog of the mama's store.
type Service interface {
	List(ctx context.Context, actor *session.Session) ([]bff.BottleMaster, error)
	Save(ctx context.Context, actor *session.Session, masterID string, in Input) (*bff.BottleMaster, error)
	Delete(ctx context.Context, actor *session.Session, masterID string) error
}

type Input struct {
	Name        string
	Brand       string
	Variety     string
	CapacityMl  int
	ImageBase64 string
}

type service struct {
	api API
}

func NewService(api API) (Service, error) {
	if api == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "bff api is required")
	}
	return &service{api: api}, nil
}

func (s *service) List(ctx context.Context, actor *session.Session) ([]bff.BottleMaster, error) {
	if err := session.RequireMama(actor); err != nil {
		return nil, err
	}
	rows, err := s.api.BottleMasters(ctx, actor.StoreID)
	if err != nil {
		return nil, bff.Wrap(err, i18n.T(i18n.ErrorLoadFailed))
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Name < rows[j].Name })
	return rows, nil
}

// Save creates the master when masterID is empty and updates it otherwise.
func (s *service) Save(ctx context.Context, actor *session.Session, masterID string, in Input) (*bff.BottleMaster, error) {
	if err := session.RequireMama(actor); err != nil {
		return nil, err
	}
	req, err := in.request(actor.StoreID)
	if err != nil {
		return nil, err
	}

	var saved *bff.BottleMaster
	if strings.TrimSpace(masterID) == "" {
		saved, err = s.api.CreateBottleMaster(ctx, req)
	} else {
		saved, err = s.api.UpdateBottleMaster(ctx, masterID, req)
	}
	if err != nil {
		return nil, bff.WrapServerMessage(err, i18n.T(i18n.ErrorGeneric))
	}
	return saved, nil
}

func (s *service) Delete(ctx context.Context, actor *session.Session, masterID string) error {
	if err := session.RequireMama(actor); err != nil {
		return err
	}
	if strings.TrimSpace(masterID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "master id is required")
	}
	if err := s.api.DeleteBottleMaster(ctx, actor.StoreID, masterID); err != nil {
		return bff.WrapServerMessage(err, i18n.T(i18n.ErrorGeneric))
	}
	return nil
}

func (in Input) request(storeID string) (bff.BottleMasterRequest, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return bff.BottleMasterRequest{}, pkgerrors.New(pkgerrors.CodeValidation, i18n.T(i18n.MasterNameRequired))
	}
	capacity := in.CapacityMl
	if capacity <= 0 {
		capacity = bottles.DefaultCapacityMl
	}
	return bff.BottleMasterRequest{
		StoreID:     storeID,
		Name:        name,
		Brand:       strings.TrimSpace(in.Brand),
		Variety:     strings.TrimSpace(in.Variety),
		CapacityMl:  capacity,
		ImageBase64: in.ImageBase64,
	}, nil
}
