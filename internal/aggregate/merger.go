package aggregate

import (
	"log/slog"
	"strings"

	"github.com/edudata/schoolscan/internal/model"
)

// Merger folds English and Japanese card exports into one bilingual
// record per site key. The two exports describe the same schools under
// different locales of the same directory, so their URL slugs line up
// while nothing else does.
type Merger struct {
	logger *slog.Logger
}

// MergerOption is a functional option for configuring a Merger.
type MergerOption func(*Merger)

// WithMergerLogger sets the logger for skipped cards and progress.
func WithMergerLogger(logger *slog.Logger) MergerOption {
	return func(m *Merger) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// NewMerger creates a Merger with the given options.
func NewMerger(opts ...MergerOption) *Merger {
	m := &Merger{
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Merge folds the English cards first and then the Japanese ones,
// returning one record per site key in first-seen order with school
// ids numbered from 1. Cards whose URL yields no site key are skipped
// with a warning.
func (m *Merger) Merge(english, japanese []model.SchoolCard) []*model.BilingualRecord {
	bySite := make(map[string]*model.BilingualRecord)
	records := make([]*model.BilingualRecord, 0)

	merge := func(cards []model.SchoolCard, lang model.Language) {
		for _, card := range cards {
			key := SiteKeyFromURL(card.URL)
			if key == "" {
				m.logger.Warn("skipping card with no usable URL",
					slog.String("name", card.Name),
					slog.String("lang", string(lang)))
				continue
			}

			record, ok := bySite[key]
			if !ok {
				record = model.NewBilingualRecord(len(records)+1, key)
				bySite[key] = record
				records = append(records, record)
				m.logger.Debug("new school",
					slog.String("site", key),
					slog.Int("schoolID", record.SchoolID))
			}

			m.fold(record, card, lang)
		}
	}

	merge(english, model.LanguageEnglish)
	merge(japanese, model.LanguageJapanese)

	return records
}

// fold copies one card into its record. Unsuffixed fields go to the
// slot for the card's language, last write wins within that language.
// Explicit *_en fields and details only overwrite when non-empty, so a
// card from one export cannot blank out what the other supplied.
func (m *Merger) fold(record *model.BilingualRecord, card model.SchoolCard, lang model.Language) {
	switch lang {
	case model.LanguageJapanese:
		record.NameJP = card.Name
		record.DescriptionJP = card.Description
		record.CurriculumJP = card.Curriculum
		record.LanguageJP = card.Language
		record.AgesJP = card.Ages
		record.FeesJP = card.Fees
		record.LocationJP = card.Location
		record.URLJP = card.URL
	default:
		record.NameEN = card.Name
		record.DescriptionEN = card.Description
		record.CurriculumEN = card.Curriculum
		record.LanguageEN = card.Language
		record.AgesEN = card.Ages
		record.FeesEN = card.Fees
		record.LocationEN = card.Location
		record.URLEN = card.URL
	}

	setIfPresent(&record.NameEN, card.NameEN)
	setIfPresent(&record.DescriptionEN, card.DescriptionEN)
	setIfPresent(&record.CurriculumEN, card.CurriculumEN)
	setIfPresent(&record.LanguageEN, card.LanguageEN)
	setIfPresent(&record.AgesEN, card.AgesEN)
	setIfPresent(&record.FeesEN, card.FeesEN)
	setIfPresent(&record.LocationEN, card.LocationEN)
	setIfPresent(&record.URLEN, card.URLEN)

	if len(card.Details) > 0 {
		record.StructuredData = card.Details
	}

	for _, member := range card.Staff {
		m.addStaff(record, member, lang)
	}
}

// addStaff appends a staff member to the language's staff list, skipping
// blank names or roles and (name, role) duplicates.
func (m *Merger) addStaff(record *model.BilingualRecord, member model.StaffMember, lang model.Language) {
	if strings.TrimSpace(member.Name) == "" || strings.TrimSpace(member.Role) == "" {
		return
	}

	list := &record.StaffStaffListEN
	if lang == model.LanguageJapanese {
		list = &record.StaffStaffListJP
	}

	for _, existing := range *list {
		if existing.Name == member.Name && existing.Role == member.Role {
			return
		}
	}

	*list = append(*list, member)
}

// setIfPresent overwrites dst only when the incoming value is non-empty.
// Absent JSON fields decode to "", so empty means absent here.
func setIfPresent(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}
