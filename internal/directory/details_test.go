package directory

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/edudata/schoolscan/internal/model"
)

const detailHTML = `<html><body>
<div id="detailed-answers">
  <div class="panel">
    <div class="panel-heading"><i class="fa fa-graduation-cap"></i> Admissions</div>
    <div class="panel-body">
      <table>
        <tr><td class="question">Is there an entrance exam?</td><td class="answer">Yes, for ages 6 and up.</td></tr>
        <tr><td class="question">Waiting list?</td><td class="answer">Sometimes.</td></tr>
      </table>
    </div>
  </div>
  <div class="panel">
    <div class="panel-heading"><i class="fa fa-yen"></i> Fees</div>
    <div class="panel-body">
      <table>
        <tr><td class="question">Sibling discount?</td><td class="answer">5% for the second child.</td></tr>
        <tr><td class="other">Not a question row</td></tr>
      </table>
    </div>
  </div>
  <div class="panel">
    <div class="panel-heading"><i class="fa"></i> Empty section</div>
  </div>
</div>
</body></html>`

// noSleep replaces the enricher's pauses in tests.
func noSleep(ctx context.Context, _ time.Duration) error {
	return ctx.Err()
}

func TestParseDetails(t *testing.T) {
	t.Parallel()

	t.Run("Parses panels into sections", func(t *testing.T) {
		t.Parallel()

		details, err := ParseDetails(strings.NewReader(detailHTML))
		if err != nil {
			t.Fatalf("ParseDetails() returned error: %v", err)
		}

		if len(details) != 2 {
			t.Fatalf("parsed %d sections, want 2 (bodyless panel skipped)", len(details))
		}

		admissions, ok := details["Admissions"]
		if !ok {
			t.Fatalf("missing Admissions section (icon text should be stripped): %v", details)
		}
		if admissions["Is there an entrance exam?"] != "Yes, for ages 6 and up." {
			t.Errorf("Admissions answers = %v", admissions)
		}
		if len(admissions) != 2 {
			t.Errorf("Admissions has %d pairs, want 2", len(admissions))
		}

		fees := details["Fees"]
		if len(fees) != 1 || fees["Sibling discount?"] != "5% for the second child." {
			t.Errorf("Fees section = %v", fees)
		}
	})

	t.Run("Returns nil for pages without a details block", func(t *testing.T) {
		t.Parallel()

		details, err := ParseDetails(strings.NewReader(`<html><body><p>Nothing here.</p></body></html>`))
		if err != nil {
			t.Fatalf("ParseDetails() returned error: %v", err)
		}
		if details != nil {
			t.Errorf("ParseDetails() = %v, want nil", details)
		}
	})
}

func TestEnrich(t *testing.T) {
	t.Parallel()

	t.Run("Fills details and saves progress", func(t *testing.T) {
		t.Parallel()

		var hits atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			hits.Add(1)
			_, _ = w.Write([]byte(detailHTML))
		}))
		defer server.Close()

		cards := []model.SchoolCard{
			{Name: "A", URL: server.URL + "/a"},
			{Name: "No URL"},
			{Name: "Done", URL: server.URL + "/done", Details: model.DetailSections{"Old": {}}},
			{Name: "B", URL: server.URL + "/b"},
		}

		var saves int
		saveFn := func(_ []model.SchoolCard) error {
			saves++
			return nil
		}

		enricher := NewEnricher(server.Client(),
			WithEnricherLogger(discardLogger()),
			WithSaveEvery(1),
			withSleep(noSleep),
		)
		if err := enricher.Enrich(context.Background(), cards, saveFn); err != nil {
			t.Fatalf("Enrich() returned error: %v", err)
		}

		if got := hits.Load(); got != 2 {
			t.Errorf("server hit %d times, want 2 (cards without URL or with details skipped)", got)
		}
		if !cards[0].HasDetails() || !cards[3].HasDetails() {
			t.Error("cards with URLs should gain details")
		}
		if len(cards[2].Details) != 1 {
			t.Errorf("existing details must be left alone: %v", cards[2].Details)
		}
		// One save per processed school plus the final save.
		if saves != 3 {
			t.Errorf("saveFn called %d times, want 3", saves)
		}
	})

	t.Run("Keeps the card unchanged when all attempts fail", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "throttled", http.StatusServiceUnavailable)
		}))
		defer server.Close()

		cards := []model.SchoolCard{{Name: "A", URL: server.URL}}

		enricher := NewEnricher(server.Client(),
			WithEnricherLogger(discardLogger()),
			WithAttempts(2),
			withSleep(noSleep),
		)
		if err := enricher.Enrich(context.Background(), cards, nil); err != nil {
			t.Fatalf("a failed school should not abort the run, got %v", err)
		}
		if cards[0].HasDetails() {
			t.Error("failed fetch must not invent details")
		}
	})

	t.Run("Retries until an attempt succeeds", func(t *testing.T) {
		t.Parallel()

		var hits atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			if hits.Add(1) < 3 {
				http.Error(w, "throttled", http.StatusServiceUnavailable)
				return
			}
			_, _ = w.Write([]byte(detailHTML))
		}))
		defer server.Close()

		var waits []time.Duration
		sleep := func(ctx context.Context, d time.Duration) error {
			waits = append(waits, d)
			return ctx.Err()
		}

		cards := []model.SchoolCard{{Name: "A", URL: server.URL}}
		enricher := NewEnricher(server.Client(),
			WithEnricherLogger(discardLogger()),
			WithAttempts(3),
			WithRetryDelay(5*time.Second),
			withSleep(sleep),
		)
		if err := enricher.Enrich(context.Background(), cards, nil); err != nil {
			t.Fatalf("Enrich() returned error: %v", err)
		}

		if !cards[0].HasDetails() {
			t.Error("third attempt succeeded, card should have details")
		}
		if len(waits) < 2 || waits[0] != 5*time.Second || waits[1] != 10*time.Second {
			t.Errorf("retry waits = %v, want doubling from 5s", waits)
		}
	})

	t.Run("Stops on context cancellation", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(detailHTML))
		}))
		defer server.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		cards := []model.SchoolCard{{Name: "A", URL: server.URL}}
		var saves int
		enricher := NewEnricher(server.Client(),
			WithEnricherLogger(discardLogger()),
			withSleep(noSleep),
		)
		err := enricher.Enrich(ctx, cards, func(_ []model.SchoolCard) error {
			saves++
			return nil
		})
		if err == nil {
			t.Fatal("Enrich() should return the context error")
		}
		if saves != 1 {
			t.Errorf("cancellation should still trigger the final save, got %d saves", saves)
		}
	})
}
