package resolve_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/colombia-api/colombia-cli/internal/api"
	"github.com/colombia-api/colombia-cli/internal/resolve"
)

var departments = []resolve.Named{
	{ID: 1, Name: "Amazonas"},
	{ID: 2, Name: "Antioquia"},
	{ID: 5, Name: "Bolívar"},
	{ID: 6, Name: "Boyacá"},
	{ID: 21, Name: "Nariño"},
	{ID: 22, Name: "Norte de Santander"},
	{ID: 27, Name: "Santander"},
}

func TestFuzzyMatch_ExactHit(t *testing.T) {
	id, err := resolve.FuzzyMatch("Antioquia", departments)
	if err != nil {
		t.Fatal(err)
	}
	if id != 2 {
		t.Fatalf("expected ID 2, got %d", id)
	}
}

func TestFuzzyMatch_IgnoresCaseAndAccents(t *testing.T) {
	tests := map[string]int{
		"BOLIVAR": 5,
		"boyaca":  6,
		"narino":  21,
		"NARIÑO":  21,
	}
	for query, want := range tests {
		id, err := resolve.FuzzyMatch(query, departments)
		if err != nil {
			t.Fatalf("%s: %v", query, err)
		}
		if id != want {
			t.Errorf("%s: expected ID %d, got %d", query, want, id)
		}
	}
}

func TestFuzzyMatch_PartialHit(t *testing.T) {
	id, err := resolve.FuzzyMatch("amaz", departments)
	if err != nil {
		t.Fatal(err)
	}
	if id != 1 {
		t.Fatalf("expected ID 1, got %d", id)
	}
}

func TestFuzzyMatch_PrefersExactOverFuzzy(t *testing.T) {
	id, err := resolve.FuzzyMatch("santander", departments)
	if err != nil {
		t.Fatal(err)
	}
	if id != 27 {
		t.Fatalf("expected exact match ID 27, got %d", id)
	}
}

func TestFuzzyMatch_NoMatch(t *testing.T) {
	_, err := resolve.FuzzyMatch("xyzzy", departments)
	var nf *resolve.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %T: %v", err, err)
	}
}

func TestFuzzyMatch_Ambiguous(t *testing.T) {
	items := []resolve.Named{
		{ID: 10, Name: "Support US"},
		{ID: 11, Name: "Support EU"},
	}
	_, err := resolve.FuzzyMatch("support", items)
	var ae *resolve.AmbiguousError
	if !errors.As(err, &ae) {
		t.Fatalf("expected AmbiguousError, got %T: %v", err, err)
	}
	if len(ae.Matches) == 0 {
		t.Fatalf("expected candidates in ambiguity error: %+v", ae)
	}
}

func TestFuzzyMatch_DuplicateExactNames(t *testing.T) {
	cities := []resolve.Named{
		{ID: 100, Name: "Buenavista"},
		{ID: 200, Name: "Buenavista"},
	}
	_, err := resolve.FuzzyMatch("buenavista", cities)
	var ae *resolve.AmbiguousError
	if !errors.As(err, &ae) {
		t.Fatalf("expected AmbiguousError, got %T: %v", err, err)
	}
	if len(ae.Matches) != 2 {
		t.Fatalf("expected both candidates, got %+v", ae.Matches)
	}
}

func TestFuzzyMatch_EmptyInputs(t *testing.T) {
	if _, err := resolve.FuzzyMatch("  ", departments); !errors.Is(err, resolve.ErrEmptyQuery) {
		t.Fatalf("expected ErrEmptyQuery, got %v", err)
	}
	if _, err := resolve.FuzzyMatch("amazonas", nil); !errors.Is(err, resolve.ErrEmptyItems) {
		t.Fatalf("expected ErrEmptyItems, got %v", err)
	}
}

func TestFuzzyMatchAll_ReturnsRanked(t *testing.T) {
	matches := resolve.FuzzyMatchAll("san", departments, 10)
	if len(matches) < 2 {
		t.Fatalf("expected at least two matches, got %+v", matches)
	}
	for i := 1; i < len(matches); i++ {
		if matches[i].Score > matches[i-1].Score {
			t.Fatalf("matches not ranked: %+v", matches)
		}
	}
	if got := resolve.FuzzyMatchAll("san", departments, 1); len(got) != 1 {
		t.Fatalf("limit not applied: %+v", got)
	}
}

func TestAmbiguousErrorString(t *testing.T) {
	err := &resolve.AmbiguousError{
		Query:   "san",
		Matches: []resolve.Match{{ID: 22, Name: "Norte de Santander"}, {ID: 27, Name: "Santander"}},
	}
	want := "ambiguous match for \"san\", candidates:\n  22: Norte de Santander\n  27: Santander"
	if err.Error() != want {
		t.Fatalf("unexpected error string:\n%s", err.Error())
	}
}

func listFrom(body string, status int) resolve.Lister {
	return func(ctx context.Context) api.Envelope {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
			_, _ = w.Write([]byte(body))
		}))
		defer server.Close()
		cfg := api.DefaultConfig()
		cfg.BaseURL = server.URL
		cfg.Retry = api.RetryConfig{}
		return api.New(cfg).Departments().List(ctx)
	}
}

func TestID(t *testing.T) {
	body := `[{"id":5,"name":"Bolívar"},{"id":6,"name":"Boyacá"},{"id":99,"name":""}]`
	calls := 0
	counting := func(ctx context.Context) api.Envelope {
		calls++
		return listFrom(body, http.StatusOK)(ctx)
	}

	id, err := resolve.ID(context.Background(), "12", counting)
	if err != nil || id != 12 {
		t.Fatalf("numeric ref: got %d, %v", id, err)
	}
	if calls != 0 {
		t.Fatalf("numeric ref must not list, got %d calls", calls)
	}

	id, err = resolve.ID(context.Background(), "bolivar", counting)
	if err != nil || id != 5 {
		t.Fatalf("name ref: got %d, %v", id, err)
	}

	_, err = resolve.ID(context.Background(), "Bolivarr", counting)
	var nf *resolve.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if len(nf.Suggestions) == 0 {
		t.Errorf("expected suggestions for a near miss")
	}
}

func TestID_ListFailure(t *testing.T) {
	_, err := resolve.ID(context.Background(), "bolivar", listFrom(``, http.StatusServiceUnavailable))
	if !api.IsRemoteStatus(err) {
		t.Fatalf("expected remote status error, got %v", err)
	}
	if _, err := resolve.ID(context.Background(), "", listFrom(`[]`, http.StatusOK)); err == nil {
		t.Fatal("expected error for empty ref")
	}
}

func TestFromEnvelope_RejectsObjects(t *testing.T) {
	env := listFrom(`{"id":1,"name":"Colombia"}`, http.StatusOK)(context.Background())
	if _, err := resolve.FromEnvelope(env); err == nil {
		t.Fatal("expected error decoding a non-list payload")
	}
}
