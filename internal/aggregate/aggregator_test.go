package aggregate

import (
	"log/slog"
	"reflect"
	"testing"

	"github.com/edudata/schoolscan/internal/model"
)

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestAggregatorAggregate(t *testing.T) {
	t.Parallel()

	t.Run("Produces one record per site key in first-seen order", func(t *testing.T) {
		t.Parallel()

		pages := []model.PageRecord{
			{ID: "tis-1", URL: "https://tis.example.com/", Data: "Tokyo home page", ScrapedAt: "2024-03-15T10:00:00.000000Z"},
			{ID: "yis-1", URL: "https://yis.example.com/", Data: "Yokohama home page", ScrapedAt: "2024-03-15T10:05:00.000000Z"},
			{ID: "tis-2", URL: "https://tis.example.com/about", Data: "Tokyo about page", ScrapedAt: "2024-03-15T10:01:00.000000Z"},
		}

		records := NewAggregator(WithAggregatorLogger(testLogger())).Aggregate(pages)

		if len(records) != 2 {
			t.Fatalf("Aggregate() returned %d records, want 2", len(records))
		}
		if records[0].Source.ID != "tis" || records[1].Source.ID != "yis" {
			t.Errorf("site keys = %q, %q, want tis, yis in first-seen order",
				records[0].Source.ID, records[1].Source.ID)
		}
		if records[0].SchoolID != 1 || records[1].SchoolID != 2 {
			t.Errorf("school ids = %d, %d, want 1, 2", records[0].SchoolID, records[1].SchoolID)
		}
		if len(records[0].Content.SubPages) != 2 {
			t.Errorf("tis has %d sub-pages, want 2", len(records[0].Content.SubPages))
		}
	})

	t.Run("Keeps the earliest capture for the source snapshot", func(t *testing.T) {
		t.Parallel()

		pages := []model.PageRecord{
			{ID: "tis-1", URL: "https://tis.example.com/late", Title: "Late", Data: "late text", ScrapedAt: "2024-03-15T10:30:00.000000Z"},
			{ID: "tis-2", URL: "https://tis.example.com/early", Title: "Early", Data: "early text", ScrapedAt: "2024-03-15T09:00:00.000000Z"},
			{ID: "tis-3", URL: "https://tis.example.com/mid", Title: "Mid", Data: "mid text", ScrapedAt: "2024-03-15T10:00:00.000000Z"},
		}

		records := NewAggregator(WithAggregatorLogger(testLogger())).Aggregate(pages)

		if len(records) != 1 {
			t.Fatalf("Aggregate() returned %d records, want 1", len(records))
		}
		source := records[0].Source
		if source.URL != "https://tis.example.com/early" || source.Title != "Early" {
			t.Errorf("source = %+v, want the snapshot of the earliest capture", source)
		}
		if source.ScrapedAt != "2024-03-15T09:00:00.000000Z" {
			t.Errorf("source.ScrapedAt = %q, want the minimum timestamp", source.ScrapedAt)
		}
	})

	t.Run("Stamped page replaces an unstamped seed", func(t *testing.T) {
		t.Parallel()

		pages := []model.PageRecord{
			{ID: "tis-1", URL: "https://tis.example.com/unstamped", Title: "Unstamped", Data: "first text"},
			{ID: "tis-2", URL: "https://tis.example.com/stamped", Title: "Stamped", Data: "second text", ScrapedAt: "2024-03-15T10:00:00.000000Z"},
		}

		records := NewAggregator(WithAggregatorLogger(testLogger())).Aggregate(pages)

		if got := records[0].Source.URL; got != "https://tis.example.com/stamped" {
			t.Errorf("source.URL = %q, want the first stamped page", got)
		}
	})

	t.Run("Keeps the first record's snapshot when nothing is stamped", func(t *testing.T) {
		t.Parallel()

		pages := []model.PageRecord{
			{ID: "tis-1", URL: "https://tis.example.com/", Title: "Tokyo International", Data: "home text"},
			{ID: "tis-2", URL: "https://tis.example.com/about", Title: "About", Data: "about text"},
		}

		records := NewAggregator(WithAggregatorLogger(testLogger())).Aggregate(pages)

		source := records[0].Source
		if source.URL != "https://tis.example.com/" || source.Title != "Tokyo International" {
			t.Errorf("source = %+v, want the group's first record", source)
		}
		if source.ScrapedAt != "" {
			t.Errorf("source.ScrapedAt = %q, want empty", source.ScrapedAt)
		}
	})

	t.Run("Unions headers per level without duplicates", func(t *testing.T) {
		t.Parallel()

		pages := []model.PageRecord{
			{
				ID:   "tis-1",
				Data: "home",
				Headers: model.HeaderSet{
					H1: model.HeaderTexts{"Welcome"},
					H2: model.HeaderTexts{"News", "Events"},
				},
				ScrapedAt: "2024-03-15T10:00:00.000000Z",
			},
			{
				ID:   "tis-2",
				Data: "about",
				Headers: model.HeaderSet{
					H1: model.HeaderTexts{"Welcome", "About Us"},
					H2: model.HeaderTexts{"Events"},
				},
				ScrapedAt: "2024-03-15T10:01:00.000000Z",
			},
		}

		records := NewAggregator(WithAggregatorLogger(testLogger())).Aggregate(pages)

		headers := records[0].Content.Headers
		if want := (model.HeaderTexts{"Welcome", "About Us"}); !reflect.DeepEqual(headers.H1, want) {
			t.Errorf("H1 = %v, want %v", headers.H1, want)
		}
		if want := (model.HeaderTexts{"News", "Events"}); !reflect.DeepEqual(headers.H2, want) {
			t.Errorf("H2 = %v, want %v", headers.H2, want)
		}
		if len(headers.H3) != 0 {
			t.Errorf("H3 = %v, want empty", headers.H3)
		}
	})

	t.Run("Deduplicates sub-pages by exact data", func(t *testing.T) {
		t.Parallel()

		pages := []model.PageRecord{
			{ID: "tis-1", Data: "shared body text", ScrapedAt: "2024-03-15T10:00:00.000000Z"},
			{ID: "tis-2", Data: "unique body text", ScrapedAt: "2024-03-15T10:01:00.000000Z"},
		}

		aggregator := NewAggregator(WithAggregatorLogger(testLogger()))

		once := aggregator.Aggregate(pages)
		twice := aggregator.Aggregate(append(append([]model.PageRecord{}, pages...), pages...))

		if len(once[0].Content.SubPages) != 2 {
			t.Fatalf("single pass stored %d sub-pages, want 2", len(once[0].Content.SubPages))
		}
		if !reflect.DeepEqual(once[0].Content.SubPages, twice[0].Content.SubPages) {
			t.Errorf("doubled input changed sub-pages: %v vs %v",
				once[0].Content.SubPages, twice[0].Content.SubPages)
		}
	})

	t.Run("Skips blank and mostly-invalid sub-page text", func(t *testing.T) {
		t.Parallel()

		pages := []model.PageRecord{
			{ID: "tis-1", Data: "   \n\t  ", ScrapedAt: "2024-03-15T10:00:00.000000Z"},
			{ID: "tis-2", Data: "Это полностью русский текст без латиницы", ScrapedAt: "2024-03-15T10:01:00.000000Z"},
			{ID: "tis-3", Data: "国際学校へようこそ Welcome to our school", ScrapedAt: "2024-03-15T10:02:00.000000Z"},
		}

		records := NewAggregator(WithAggregatorLogger(testLogger())).Aggregate(pages)

		subPages := records[0].Content.SubPages
		if len(subPages) != 1 {
			t.Fatalf("stored %d sub-pages, want only the clean one", len(subPages))
		}
		if subPages[0].Data != "国際学校へようこそ Welcome to our school" {
			t.Errorf("stored data = %q, want the mixed Japanese/English text", subPages[0].Data)
		}
	})

	t.Run("Chooses sub-page titles by header priority", func(t *testing.T) {
		t.Parallel()

		testCases := []struct {
			name string
			page model.PageRecord
			want string
		}{
			{
				name: "First h1 wins",
				page: model.PageRecord{
					Title: "Fallback",
					Headers: model.HeaderSet{
						H1: model.HeaderTexts{"Main Heading", "Second"},
						H2: model.HeaderTexts{"Lower"},
					},
				},
				want: "Main Heading",
			},
			{
				name: "Blank h1 falls through to h2",
				page: model.PageRecord{
					Title: "Fallback",
					Headers: model.HeaderSet{
						H1: model.HeaderTexts{"   "},
						H2: model.HeaderTexts{"Admissions"},
					},
				},
				want: "Admissions",
			},
			{
				name: "h3 is the last header resort",
				page: model.PageRecord{
					Headers: model.HeaderSet{
						H3: model.HeaderTexts{"Contact"},
					},
				},
				want: "Contact",
			},
			{
				name: "Page title when no headers",
				page: model.PageRecord{Title: "School Site"},
				want: "School Site",
			},
			{
				name: "Untitled when nothing available",
				page: model.PageRecord{},
				want: "Untitled",
			},
		}

		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				t.Parallel()

				if got := subPageTitle(tc.page); got != tc.want {
					t.Errorf("subPageTitle() = %q, want %q", got, tc.want)
				}
			})
		}
	})

	t.Run("Unions links across the group", func(t *testing.T) {
		t.Parallel()

		pages := []model.PageRecord{
			{ID: "tis-1", Data: "a", Links: []string{"https://tis.example.com/x", "https://tis.example.com/y"}, ScrapedAt: "2024-03-15T10:00:00.000000Z"},
			{ID: "tis-2", Data: "b", Links: []string{"https://tis.example.com/y", "https://tis.example.com/z"}, ScrapedAt: "2024-03-15T10:01:00.000000Z"},
		}

		records := NewAggregator(WithAggregatorLogger(testLogger())).Aggregate(pages)

		want := []string{
			"https://tis.example.com/x",
			"https://tis.example.com/y",
			"https://tis.example.com/z",
		}
		if !reflect.DeepEqual(records[0].Links, want) {
			t.Errorf("Links = %v, want %v", records[0].Links, want)
		}
	})

	t.Run("Groups by URL segment when configured", func(t *testing.T) {
		t.Parallel()

		pages := []model.PageRecord{
			{ID: "a-1", URL: "https://dir.example.com/schools/tokyo-international", Data: "en card", ScrapedAt: "2024-03-15T10:00:00.000000Z"},
			{ID: "b-1", URL: "https://dir.example.com/ja/schools/tokyo-international", Data: "jp card", ScrapedAt: "2024-03-15T10:01:00.000000Z"},
		}

		records := NewAggregator(
			WithKeyFunc(URLSegmentKey),
			WithAggregatorLogger(testLogger()),
		).Aggregate(pages)

		if len(records) != 1 {
			t.Fatalf("Aggregate() returned %d records, want 1 shared slug group", len(records))
		}
		if records[0].Source.ID != "tokyo-international" {
			t.Errorf("site key = %q, want the URL slug", records[0].Source.ID)
		}
	})

	t.Run("Handles empty input", func(t *testing.T) {
		t.Parallel()

		records := NewAggregator(WithAggregatorLogger(testLogger())).Aggregate(nil)
		if len(records) != 0 {
			t.Errorf("Aggregate(nil) returned %d records, want 0", len(records))
		}
	})
}
