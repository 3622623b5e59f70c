package services

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/PrayerPraise/models"
)

type PraiseStore interface {
	LoadPraises(ctx context.Context) ([]models.Praise, error)
	SavePraises(ctx context.Context, praises []models.Praise) error
}

func AddPraise(praises []models.Praise, text string, now time.Time) ([]models.Praise, models.Praise, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return praises, models.Praise{}, ErrInvalidPraise
	}

	praise := models.Praise{
		Praise_ID: models.NewRecordID(),
		Text:      text,
		Date:      now.UTC(),
	}

	out := make([]models.Praise, 0, len(praises)+1)
	out = append(out, praises...)
	out = append(out, praise)
	return out, praise, nil
}

func TogglePraiseArchived(praises []models.Praise, id models.RecordID) ([]models.Praise, models.Praise, error) {
	return updatePraise(praises, id, func(p *models.Praise) error {
		p.Is_Archived = !p.Is_Archived
		return nil
	})
}

func RemovePraise(praises []models.Praise, id models.RecordID) ([]models.Praise, models.Praise, error) {
	return updatePraise(praises, id, func(p *models.Praise) error {
		p.Is_Removed = true
		return nil
	})
}

func EditPraiseText(praises []models.Praise, id models.RecordID, text string) ([]models.Praise, models.Praise, error) {
	text = strings.TrimSpace(text)
	return updatePraise(praises, id, func(p *models.Praise) error {
		if text == "" {
			return ErrInvalidPraise
		}
		p.Text = text
		return nil
	})
}

func updatePraise(praises []models.Praise, id models.RecordID, mutate func(*models.Praise) error) ([]models.Praise, models.Praise, error) {
	i := slices.IndexFunc(praises, func(p models.Praise) bool {
		return p.Praise_ID == id && !p.Is_Removed
	})
	if i < 0 {
		return praises, models.Praise{}, ErrPraiseNotFound
	}

	updated := praises[i]
	if err := mutate(&updated); err != nil {
		return praises, praises[i], err
	}

	out := slices.Clone(praises)
	out[i] = updated
	return out, updated, nil
}

// FilterPraises returns the praises in a view, newest first.
func FilterPraises(praises []models.Praise, view string) ([]models.Praise, error) {
	var keep func(models.Praise) bool
	switch view {
	case models.PraiseViewActive, "":
		keep = func(p models.Praise) bool { return !p.Is_Archived }
	case models.PraiseViewArchived:
		keep = func(p models.Praise) bool { return p.Is_Archived }
	case models.PraiseViewAll:
		keep = func(models.Praise) bool { return true }
	default:
		return nil, ErrInvalidView
	}

	out := []models.Praise{}
	for _, p := range praises {
		if !p.Is_Removed && keep(p) {
			out = append(out, p)
		}
	}
	slices.SortStableFunc(out, func(a, b models.Praise) int {
		return b.Date.Compare(a.Date)
	})
	return out, nil
}

type PraiseService struct {
	store    PraiseStore
	calendar Calendar
}

func NewPraiseService(store PraiseStore, calendar Calendar) *PraiseService {
	return &PraiseService{store: store, calendar: calendar}
}

func (s *PraiseService) List(ctx context.Context, view string) ([]models.Praise, error) {
	praises, err := s.store.LoadPraises(ctx)
	if err != nil {
		return nil, err
	}
	return FilterPraises(praises, view)
}

func (s *PraiseService) Create(ctx context.Context, input models.PraiseCreate) (models.Praise, error) {
	return s.apply(ctx, func(praises []models.Praise) ([]models.Praise, models.Praise, error) {
		return AddPraise(praises, input.Text, s.calendar.CurrentTime())
	})
}

func (s *PraiseService) Update(ctx context.Context, id models.RecordID, input models.PraiseUpdate) (models.Praise, error) {
	return s.apply(ctx, func(praises []models.Praise) ([]models.Praise, models.Praise, error) {
		return EditPraiseText(praises, id, input.Text)
	})
}

func (s *PraiseService) ToggleArchived(ctx context.Context, id models.RecordID) (models.Praise, error) {
	return s.apply(ctx, func(praises []models.Praise) ([]models.Praise, models.Praise, error) {
		return TogglePraiseArchived(praises, id)
	})
}

func (s *PraiseService) Remove(ctx context.Context, id models.RecordID) error {
	_, err := s.apply(ctx, func(praises []models.Praise) ([]models.Praise, models.Praise, error) {
		return RemovePraise(praises, id)
	})
	return err
}

func (s *PraiseService) apply(ctx context.Context, mutate func([]models.Praise) ([]models.Praise, models.Praise, error)) (models.Praise, error) {
	praises, err := s.store.LoadPraises(ctx)
	if err != nil {
		return models.Praise{}, err
	}

	updated, praise, err := mutate(praises)
	if err != nil {
		return models.Praise{}, err
	}
	if err := s.store.SavePraises(ctx, updated); err != nil {
		return models.Praise{}, err
	}
	return praise, nil
}
