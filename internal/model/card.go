package model

// Language names the language slot a card export's unsuffixed fields
// belong to when merging bilingual exports.
type Language string

const (
	// LanguageEnglish marks cards loaded from an English export.
	LanguageEnglish Language = "en"

	// LanguageJapanese marks cards loaded from a Japanese export.
	LanguageJapanese Language = "jp"
)

// DetailSections holds detail-page content grouped as
// section name -> question -> answer.
type DetailSections map[string]map[string]string

// SchoolCard is one school's entry as scraped from a directory listing.
// Cards are the raw input of the bilingual merge and the output of the
// directory scraper; a detail-enrichment pass later fills in Details.
//
// All fields are optional in input. The *_en variants appear in exports
// that went through a translation pass, carrying the English text next
// to the original field.
type SchoolCard struct {
	Name        string `json:"name,omitempty"`
	URL         string `json:"url,omitempty"`
	Description string `json:"description,omitempty"`
	Curriculum  string `json:"curriculum,omitempty"`
	Language    string `json:"language,omitempty"`
	Ages        string `json:"ages,omitempty"`
	Fees        string `json:"fees,omitempty"`
	Location    string `json:"location,omitempty"`

	NameEN        string `json:"name_en,omitempty"`
	URLEN         string `json:"url_en,omitempty"`
	DescriptionEN string `json:"description_en,omitempty"`
	CurriculumEN  string `json:"curriculum_en,omitempty"`
	LanguageEN    string `json:"language_en,omitempty"`
	AgesEN        string `json:"ages_en,omitempty"`
	FeesEN        string `json:"fees_en,omitempty"`
	LocationEN    string `json:"location_en,omitempty"`

	// Details is the question/answer content from the school's detail
	// page, grouped by section. Empty until the enrichment pass runs.
	Details DetailSections `json:"details,omitempty"`

	// Staff lists people attached to the school, when the export
	// carries them.
	Staff []StaffMember `json:"staff,omitempty"`
}

// HasDetails returns true once the enrichment pass has stored detail
// sections for this card.
func (c *SchoolCard) HasDetails() bool {
	return len(c.Details) > 0
}
