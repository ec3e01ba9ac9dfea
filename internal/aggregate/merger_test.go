package aggregate

import (
	"reflect"
	"testing"

	"github.com/edudata/schoolscan/internal/model"
)

func TestMergerMerge(t *testing.T) {
	t.Parallel()

	t.Run("Routes unsuffixed fields by export language", func(t *testing.T) {
		t.Parallel()

		english := []model.SchoolCard{{
			Name:     "Tokyo International School",
			URL:      "https://dir.example.com/schools/tokyo-international",
			Fees:     "1,500,000 JPY",
			Location: "Minato, Tokyo",
		}}
		japanese := []model.SchoolCard{{
			Name:     "東京インターナショナルスクール",
			URL:      "https://dir.example.com/ja/schools/tokyo-international",
			Fees:     "150万円",
			Location: "東京都港区",
		}}

		records := NewMerger(WithMergerLogger(testLogger())).Merge(english, japanese)

		if len(records) != 1 {
			t.Fatalf("Merge() returned %d records, want 1 shared slug group", len(records))
		}

		record := records[0]
		if record.SchoolID != 1 || record.SiteID != "tokyo-international" {
			t.Errorf("identity = (%d, %q), want (1, tokyo-international)", record.SchoolID, record.SiteID)
		}
		if record.NameEN != "Tokyo International School" {
			t.Errorf("NameEN = %q, want the English name", record.NameEN)
		}
		if record.NameJP != "東京インターナショナルスクール" {
			t.Errorf("NameJP = %q, want the Japanese name", record.NameJP)
		}
		if record.URLEN != english[0].URL || record.URLJP != japanese[0].URL {
			t.Errorf("urls = (%q, %q), want each export's own URL", record.URLEN, record.URLJP)
		}
		if record.FeesEN != "1,500,000 JPY" || record.FeesJP != "150万円" {
			t.Errorf("fees = (%q, %q), want per-language values", record.FeesEN, record.FeesJP)
		}
	})

	t.Run("Japanese cards never blank out English fields", func(t *testing.T) {
		t.Parallel()

		english := []model.SchoolCard{{
			Name:        "Yokohama International School",
			URL:         "https://dir.example.com/schools/yis",
			Description: "An IB school in Yokohama.",
		}}
		japanese := []model.SchoolCard{{
			Name: "横浜インターナショナルスクール",
			URL:  "https://dir.example.com/ja/schools/yis",
		}}

		records := NewMerger(WithMergerLogger(testLogger())).Merge(english, japanese)

		record := records[0]
		if record.NameEN != "Yokohama International School" {
			t.Errorf("NameEN = %q, want it untouched after the Japanese fold", record.NameEN)
		}
		if record.DescriptionEN != "An IB school in Yokohama." {
			t.Errorf("DescriptionEN = %q, want it untouched after the Japanese fold", record.DescriptionEN)
		}
		if record.NameJP != "横浜インターナショナルスクール" {
			t.Errorf("NameJP = %q, want the Japanese name", record.NameJP)
		}
	})

	t.Run("Explicit English fields override routed ones", func(t *testing.T) {
		t.Parallel()

		japanese := []model.SchoolCard{{
			Name:   "関西学院",
			NameEN: "Kwansei Academy",
			URL:    "https://dir.example.com/ja/schools/kwansei",
		}}

		records := NewMerger(WithMergerLogger(testLogger())).Merge(nil, japanese)

		record := records[0]
		if record.NameJP != "関西学院" {
			t.Errorf("NameJP = %q, want the unsuffixed name", record.NameJP)
		}
		if record.NameEN != "Kwansei Academy" {
			t.Errorf("NameEN = %q, want the explicit name_en value", record.NameEN)
		}
	})

	t.Run("Copies details only when present", func(t *testing.T) {
		t.Parallel()

		details := model.DetailSections{
			"admissions": {"Application fee": "25,000 JPY"},
		}
		english := []model.SchoolCard{{
			URL:     "https://dir.example.com/schools/tis",
			Details: details,
		}}
		japanese := []model.SchoolCard{{
			URL: "https://dir.example.com/ja/schools/tis",
		}}

		records := NewMerger(WithMergerLogger(testLogger())).Merge(english, japanese)

		if !reflect.DeepEqual(records[0].StructuredData, details) {
			t.Errorf("StructuredData = %v, want the English details preserved", records[0].StructuredData)
		}
	})

	t.Run("Later details overwrite earlier ones", func(t *testing.T) {
		t.Parallel()

		english := []model.SchoolCard{{
			URL:     "https://dir.example.com/schools/tis",
			Details: model.DetailSections{"admissions": {"Fees": "old"}},
		}}
		japanese := []model.SchoolCard{{
			URL:     "https://dir.example.com/ja/schools/tis",
			Details: model.DetailSections{"admissions": {"Fees": "new"}},
		}}

		records := NewMerger(WithMergerLogger(testLogger())).Merge(english, japanese)

		if got := records[0].StructuredData["admissions"]["Fees"]; got != "new" {
			t.Errorf("details admissions fees = %q, want the later value", got)
		}
	})

	t.Run("Skips cards without a usable URL", func(t *testing.T) {
		t.Parallel()

		english := []model.SchoolCard{
			{Name: "No URL at all"},
			{Name: "Slash-terminated", URL: "https://dir.example.com/schools/"},
			{Name: "Keyable", URL: "https://dir.example.com/schools/keyable"},
		}

		records := NewMerger(WithMergerLogger(testLogger())).Merge(english, nil)

		if len(records) != 1 {
			t.Fatalf("Merge() returned %d records, want 1", len(records))
		}
		if records[0].SiteID != "keyable" {
			t.Errorf("SiteID = %q, want keyable", records[0].SiteID)
		}
	})

	t.Run("Deduplicates staff by name and role", func(t *testing.T) {
		t.Parallel()

		english := []model.SchoolCard{{
			URL: "https://dir.example.com/schools/tis",
			Staff: []model.StaffMember{
				{Name: "A. Tanaka", Role: "Principal"},
				{Name: "A. Tanaka", Role: "Principal"},
				{Name: "A. Tanaka", Role: "Trustee"},
				{Name: "", Role: "Ghost"},
				{Name: "R. Suzuki", Role: "  "},
			},
		}}

		records := NewMerger(WithMergerLogger(testLogger())).Merge(english, nil)

		want := []model.StaffMember{
			{Name: "A. Tanaka", Role: "Principal"},
			{Name: "A. Tanaka", Role: "Trustee"},
		}
		if !reflect.DeepEqual(records[0].StaffStaffListEN, want) {
			t.Errorf("StaffStaffListEN = %v, want %v", records[0].StaffStaffListEN, want)
		}
		if len(records[0].StaffStaffListJP) != 0 {
			t.Errorf("StaffStaffListJP = %v, want empty for an English card", records[0].StaffStaffListJP)
		}
	})

	t.Run("Assigns sequential school ids in first-seen order", func(t *testing.T) {
		t.Parallel()

		english := []model.SchoolCard{
			{URL: "https://dir.example.com/schools/first"},
			{URL: "https://dir.example.com/schools/second"},
		}
		japanese := []model.SchoolCard{
			{URL: "https://dir.example.com/ja/schools/second"},
			{URL: "https://dir.example.com/ja/schools/third"},
		}

		records := NewMerger(WithMergerLogger(testLogger())).Merge(english, japanese)

		if len(records) != 3 {
			t.Fatalf("Merge() returned %d records, want 3", len(records))
		}
		wantSites := []string{"first", "second", "third"}
		for i, record := range records {
			if record.SchoolID != i+1 {
				t.Errorf("records[%d].SchoolID = %d, want %d", i, record.SchoolID, i+1)
			}
			if record.SiteID != wantSites[i] {
				t.Errorf("records[%d].SiteID = %q, want %q", i, record.SiteID, wantSites[i])
			}
		}
	})
}
