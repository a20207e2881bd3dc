package classifications_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/intellisort/intellisort/internal/classifications"
	"github.com/intellisort/intellisort/internal/identity"
	"github.com/intellisort/intellisort/pkg/pagination"
)

type mockSystem struct {
	listFn     func(ctx context.Context, page pagination.PageRequest, filters classifications.Filters) (*pagination.PageResult[classifications.Classification], error)
	findFn     func(ctx context.Context, id uuid.UUID) (*classifications.Classification, error)
	collectFn  func(ctx context.Context, filters classifications.Filters) ([]classifications.Classification, error)
	classifyFn func(ctx context.Context, caller identity.Principal, cmd classifications.ClassifyCommand) (*classifications.Classification, error)
}

func (m *mockSystem) Handler(maxUploadSize int64) *classifications.Handler {
	return classifications.NewHandler(
		m,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		pagination.Config{DefaultPageSize: 20, MaxPageSize: 100},
		maxUploadSize,
	)
}

func (m *mockSystem) List(ctx context.Context, page pagination.PageRequest, filters classifications.Filters) (*pagination.PageResult[classifications.Classification], error) {
	return m.listFn(ctx, page, filters)
}

func (m *mockSystem) Find(ctx context.Context, id uuid.UUID) (*classifications.Classification, error) {
	return m.findFn(ctx, id)
}

func (m *mockSystem) Collect(ctx context.Context, filters classifications.Filters) ([]classifications.Classification, error) {
	return m.collectFn(ctx, filters)
}

func (m *mockSystem) Classify(ctx context.Context, caller identity.Principal, cmd classifications.ClassifyCommand) (*classifications.Classification, error) {
	return m.classifyFn(ctx, caller, cmd)
}

func setupMux(sys *mockSystem) *http.ServeMux {
	mux := http.NewServeMux()
	group := sys.Handler(1 << 20).Routes()
	for _, route := range group.Routes {
		pattern := route.Method + " " + group.Prefix + route.Pattern
		mux.HandleFunc(pattern, route.Handler)
	}
	return mux
}

func authenticated(req *http.Request, p identity.Principal) *http.Request {
	return req.WithContext(identity.WithPrincipal(req.Context(), p))
}

func user(subject string) identity.Principal {
	return identity.Principal{Subject: subject}
}

func admin() identity.Principal {
	return identity.Principal{Subject: "admin-1", Admin: true}
}

func sampleClassification(userID string) classifications.Classification {
	category := "plastic"
	disposal := "Recyclable"
	confidence := 0.92
	tip := "Rinse before recycling."
	ref := "data:image/jpeg;base64,AAAA"

	return classifications.Classification{
		ID:            uuid.MustParse("550e8400-e29b-41d4-a716-446655440000"),
		UserID:        userID,
		WasteCategory: &category,
		DisposalType:  &disposal,
		Confidence:    &confidence,
		Tip:           &tip,
		ImageRef:      &ref,
		CreatedAt:     time.Now().Truncate(time.Second),
	}
}

func TestHandlerClassify(t *testing.T) {
	t.Run("returns created record", func(t *testing.T) {
		c := sampleClassification("user-1")
		sys := &mockSystem{
			classifyFn: func(_ context.Context, caller identity.Principal, cmd classifications.ClassifyCommand) (*classifications.Classification, error) {
				if caller.Subject != "user-1" {
					t.Errorf("caller = %q, want user-1", caller.Subject)
				}
				if cmd.Image == "" {
					t.Error("image payload missing")
				}
				return &c, nil
			},
		}
		mux := setupMux(sys)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/classifications", strings.NewReader(`{"image":"data:image/jpeg;base64,AAAA"}`))
		mux.ServeHTTP(rec, authenticated(req, user("user-1")))

		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d, want 201", rec.Code)
		}

		var got classifications.Classification
		if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if got.ID != c.ID {
			t.Errorf("id = %v, want %v", got.ID, c.ID)
		}
	})

	t.Run("no principal returns 401", func(t *testing.T) {
		sys := &mockSystem{
			classifyFn: func(context.Context, identity.Principal, classifications.ClassifyCommand) (*classifications.Classification, error) {
				t.Fatal("classify should not be reached")
				return nil, nil
			},
		}
		mux := setupMux(sys)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/classifications", strings.NewReader(`{"image":"x"}`))
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("missing image returns 400", func(t *testing.T) {
		sys := &mockSystem{
			classifyFn: func(_ context.Context, _ identity.Principal, cmd classifications.ClassifyCommand) (*classifications.Classification, error) {
				if cmd.Image == "" {
					return nil, classifications.ErrNoImage
				}
				return nil, nil
			},
		}
		mux := setupMux(sys)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/classifications", strings.NewReader(`{}`))
		mux.ServeHTTP(rec, authenticated(req, user("user-1")))

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("malformed body returns 400", func(t *testing.T) {
		sys := &mockSystem{}
		mux := setupMux(sys)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/classifications", strings.NewReader("not json"))
		mux.ServeHTTP(rec, authenticated(req, user("user-1")))

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}

func TestHandlerList(t *testing.T) {
	t.Run("non-admin pinned to own records", func(t *testing.T) {
		var captured classifications.Filters
		sys := &mockSystem{
			listFn: func(_ context.Context, _ pagination.PageRequest, f classifications.Filters) (*pagination.PageResult[classifications.Classification], error) {
				captured = f
				result := pagination.NewPageResult([]classifications.Classification{}, 0, 1, 20)
				return &result, nil
			},
		}
		mux := setupMux(sys)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/classifications?user_id=someone-else", nil)
		mux.ServeHTTP(rec, authenticated(req, user("user-1")))

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if captured.UserID == nil || *captured.UserID != "user-1" {
			t.Errorf("user_id filter = %v, want user-1", captured.UserID)
		}
	})

	t.Run("admin filter passes through", func(t *testing.T) {
		var captured classifications.Filters
		sys := &mockSystem{
			listFn: func(_ context.Context, _ pagination.PageRequest, f classifications.Filters) (*pagination.PageResult[classifications.Classification], error) {
				captured = f
				result := pagination.NewPageResult([]classifications.Classification{}, 0, 1, 20)
				return &result, nil
			},
		}
		mux := setupMux(sys)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/classifications?user_id=user-2&waste_category=plastic", nil)
		mux.ServeHTTP(rec, authenticated(req, admin()))

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if captured.UserID == nil || *captured.UserID != "user-2" {
			t.Errorf("user_id filter = %v, want user-2", captured.UserID)
		}
		if captured.WasteCategory == nil || *captured.WasteCategory != "plastic" {
			t.Errorf("waste_category filter = %v, want plastic", captured.WasteCategory)
		}
	})
}

func TestHandlerFind(t *testing.T) {
	c := sampleClassification("user-1")

	t.Run("owner sees own record", func(t *testing.T) {
		sys := &mockSystem{
			findFn: func(_ context.Context, id uuid.UUID) (*classifications.Classification, error) {
				if id != c.ID {
					return nil, classifications.ErrNotFound
				}
				return &c, nil
			},
		}
		mux := setupMux(sys)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/classifications/"+c.ID.String(), nil)
		mux.ServeHTTP(rec, authenticated(req, user("user-1")))

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
	})

	t.Run("other user's record looks missing", func(t *testing.T) {
		sys := &mockSystem{
			findFn: func(context.Context, uuid.UUID) (*classifications.Classification, error) {
				return &c, nil
			},
		}
		mux := setupMux(sys)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/classifications/"+c.ID.String(), nil)
		mux.ServeHTTP(rec, authenticated(req, user("user-2")))

		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
	})

	t.Run("admin sees any record", func(t *testing.T) {
		sys := &mockSystem{
			findFn: func(context.Context, uuid.UUID) (*classifications.Classification, error) {
				return &c, nil
			},
		}
		mux := setupMux(sys)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/classifications/"+c.ID.String(), nil)
		mux.ServeHTTP(rec, authenticated(req, admin()))

		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", rec.Code)
		}
	})

	t.Run("invalid uuid returns 400", func(t *testing.T) {
		sys := &mockSystem{}
		mux := setupMux(sys)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/classifications/not-a-uuid", nil)
		mux.ServeHTTP(rec, authenticated(req, user("user-1")))

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}

func TestHandlerSearch(t *testing.T) {
	t.Run("decodes pagination and filters", func(t *testing.T) {
		var capturedPage pagination.PageRequest
		var capturedFilters classifications.Filters
		sys := &mockSystem{
			listFn: func(_ context.Context, page pagination.PageRequest, f classifications.Filters) (*pagination.PageResult[classifications.Classification], error) {
				capturedPage = page
				capturedFilters = f
				result := pagination.NewPageResult([]classifications.Classification{}, 0, page.Page, page.PageSize)
				return &result, nil
			},
		}
		mux := setupMux(sys)

		body := `{"page":2,"page_size":10,"waste_category":"glass"}`
		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/classifications/search", strings.NewReader(body))
		mux.ServeHTTP(rec, authenticated(req, user("user-1")))

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if capturedPage.Page != 2 || capturedPage.PageSize != 10 {
			t.Errorf("page = %d/%d, want 2/10", capturedPage.Page, capturedPage.PageSize)
		}
		if capturedFilters.WasteCategory == nil || *capturedFilters.WasteCategory != "glass" {
			t.Errorf("waste_category filter = %v, want glass", capturedFilters.WasteCategory)
		}
		if capturedFilters.UserID == nil || *capturedFilters.UserID != "user-1" {
			t.Errorf("user_id filter = %v, want user-1", capturedFilters.UserID)
		}
	})
}
