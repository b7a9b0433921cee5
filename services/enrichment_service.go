package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"planora.app/ai"
	"planora.app/authz"
	"planora.app/models"
	"planora.app/pkg/fallback"
	"planora.app/pkg/textsearch"
	"planora.app/repositories"

	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

const maxGeneratedDescription = 2000

// EventDraft is a partially filled event proposed by the parser.
type EventDraft struct {
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Location    string     `json:"location,omitempty"`
	StartsAt    *time.Time `json:"starts_at,omitempty"`
	EndsAt      *time.Time `json:"ends_at,omitempty"`
	AllDay      bool       `json:"all_day"`
}

// IEnrichmentService offers best-effort suggestions. No method returns an
// error; an unavailable or failing provider yields the zero suggestion.
type IEnrichmentService interface {
	ParseEvent(ctx context.Context, text string) *EventDraft
	DescribeEvent(ctx context.Context, draft EventDraft) string
	SuggestCategory(ctx context.Context, itemName string) *models.Category
	DetectConflicts(ctx context.Context, p authz.Principal, start, end time.Time, excludeID uint) []models.Event
}

type EnrichmentService struct {
	db     *gorm.DB
	client ai.Completer
	now    func() time.Time
}

func NewEnrichmentService(db *gorm.DB, client ai.Completer) IEnrichmentService {
	return &EnrichmentService{db: db, client: client, now: time.Now}
}

type parsedEvent struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Location    string `json:"location"`
	StartsAt    string `json:"starts_at"`
	EndsAt      string `json:"ends_at"`
	AllDay      bool   `json:"all_day"`
}

func (s *EnrichmentService) enabled() bool {
	return s.client != nil && s.client.Enabled()
}

// ParseEvent turns free text ("team lunch friday at noon") into a draft, or nil.
func (s *EnrichmentService) ParseEvent(ctx context.Context, text string) *EventDraft {
	text = strings.TrimSpace(text)
	if text == "" || !s.enabled() {
		return nil
	}
	return fallback.WithFallback(ctx, "parse_event", func(ctx context.Context) (*EventDraft, error) {
		system := "You extract calendar events. Reply with a JSON object with keys " +
			"title, description, location, starts_at, ends_at (RFC 3339) and all_day. " +
			"The current time is " + s.now().UTC().Format(time.RFC3339) + "."
		var out parsedEvent
		if err := s.client.CompleteJSON(ctx, system, text, &out); err != nil {
			return nil, err
		}
		return out.draft()
	}, nil)
}

func (p parsedEvent) draft() (*EventDraft, error) {
	title := strings.TrimSpace(p.Title)
	if title == "" {
		return nil, errors.New("parsed event has no title")
	}
	d := &EventDraft{
		Title:       title,
		Description: strings.TrimSpace(p.Description),
		Location:    strings.TrimSpace(p.Location),
		AllDay:      p.AllDay,
	}
	if p.StartsAt != "" {
		t, err := time.Parse(time.RFC3339, p.StartsAt)
		if err != nil {
			return nil, fmt.Errorf("parsed starts_at: %w", err)
		}
		d.StartsAt = &t
	}
	if p.EndsAt != "" {
		t, err := time.Parse(time.RFC3339, p.EndsAt)
		if err != nil {
			return nil, fmt.Errorf("parsed ends_at: %w", err)
		}
		d.EndsAt = &t
	}
	if d.StartsAt != nil && d.EndsAt != nil && d.EndsAt.Before(*d.StartsAt) {
		d.EndsAt = nil
	}
	return d, nil
}

// DescribeEvent drafts a short description, or returns "".
func (s *EnrichmentService) DescribeEvent(ctx context.Context, draft EventDraft) string {
	if strings.TrimSpace(draft.Title) == "" || !s.enabled() {
		return ""
	}
	return fallback.WithFallback(ctx, "describe_event", func(ctx context.Context) (string, error) {
		var b strings.Builder
		fmt.Fprintf(&b, "Title: %s\n", draft.Title)
		if draft.Location != "" {
			fmt.Fprintf(&b, "Location: %s\n", draft.Location)
		}
		if draft.StartsAt != nil {
			fmt.Fprintf(&b, "Starts: %s\n", draft.StartsAt.Format(time.RFC1123))
		}
		out, err := s.client.Complete(ctx,
			"Write a friendly two-sentence description for this event. Plain text only.", b.String())
		if err != nil {
			return "", err
		}
		out = strings.TrimSpace(out)
		return truncateUTF8(out, maxGeneratedDescription), nil
	}, "")
}

// truncateUTF8 cuts s to at most n bytes without splitting a rune.
func truncateUTF8(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// SuggestCategory picks one of the seeded categories for an inventory item.
// The model may only choose among existing slugs; when it is unavailable a
// keyword match is used instead.
func (s *EnrichmentService) SuggestCategory(ctx context.Context, itemName string) *models.Category {
	itemName = strings.TrimSpace(itemName)
	if itemName == "" {
		return nil
	}
	categories := fallback.WithFallback(ctx, "load_categories", func(ctx context.Context) ([]models.Category, error) {
		return repositories.NewCategoryRepository(s.db).FindAll(ctx)
	}, nil)
	if len(categories) == 0 {
		return nil
	}

	guess := guessCategory(itemName, categories)
	if !s.enabled() {
		return guess
	}
	return fallback.WithFallback(ctx, "suggest_category", func(ctx context.Context) (*models.Category, error) {
		slugs := make([]string, 0, len(categories))
		for _, c := range categories {
			slugs = append(slugs, c.Slug)
		}
		system := "Classify an inventory item into exactly one category. Reply with a JSON object " +
			`{"slug": "<one of: ` + strings.Join(slugs, ", ") + `>"}.`
		var out struct {
			Slug string `json:"slug"`
		}
		if err := s.client.CompleteJSON(ctx, system, itemName, &out); err != nil {
			return nil, err
		}
		want := slug.Make(out.Slug)
		for i := range categories {
			if categories[i].Slug == want {
				return &categories[i], nil
			}
		}
		return nil, fmt.Errorf("model suggested unknown category %q", out.Slug)
	}, guess)
}

var categoryKeywords = map[string][]string{
	slug.Make(models.CategoryNameAudioVisual): {"projector", "speaker", "microphone", "mic", "screen", "camera", "cable", "light", "sound"},
	slug.Make(models.CategoryNameFurniture):   {"chair", "table", "desk", "stage", "tent", "bench", "sofa"},
	slug.Make(models.CategoryNameCatering):    {"plate", "cup", "glass", "cutlery", "fork", "knife", "napkin", "coffee", "food", "drink"},
	slug.Make(models.CategoryNameDecoration):  {"banner", "flower", "balloon", "candle", "tablecloth", "sign", "poster"},
	slug.Make(models.CategoryNameStationery):  {"pen", "paper", "badge", "lanyard", "notebook", "marker", "flyer"},
}

func guessCategory(itemName string, categories []models.Category) *models.Category {
	words := strings.Fields(textsearch.Fold(itemName))
	for i := range categories {
		for _, kw := range categoryKeywords[categories[i].Slug] {
			for _, w := range words {
				if w == kw || w == kw+"s" {
					return &categories[i]
				}
			}
		}
	}
	return nil
}

// DetectConflicts lists the principal's other events intersecting [start, end).
// A failing lookup yields no conflicts rather than blocking the caller.
func (s *EnrichmentService) DetectConflicts(ctx context.Context, p authz.Principal, start, end time.Time, excludeID uint) []models.Event {
	if !p.IsAuthenticated() || !end.After(start) {
		return nil
	}
	return fallback.WithFallback(ctx, "detect_conflicts", func(ctx context.Context) ([]models.Event, error) {
		return repositories.NewEventRepository(s.db).FindOverlappingForUser(ctx, p.UserID, start, end, excludeID)
	}, nil)
}

var _ IEnrichmentService = (*EnrichmentService)(nil)
