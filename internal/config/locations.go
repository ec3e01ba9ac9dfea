package config

// Location is one regional listing page of the school directory.
type Location struct {
	// Name is the human-readable region name, stored on every card
	// scraped from this listing.
	Name string `yaml:"name"`

	// URL is the directory page listing the region's schools.
	URL string `yaml:"url"`
}

// JapaneseLocations returns the directory listing pages covered by the
// directory command, one per region with international schools.
func JapaneseLocations() []Location {
	return []Location{
		{Name: "Tokyo", URL: "https://www.international-schools-database.com/in/tokyo"},
		{Name: "Kyoto-Osaka-Kobe", URL: "https://www.international-schools-database.com/in/kyoto-osaka-kobe"},
		{Name: "Nagoya", URL: "https://www.international-schools-database.com/in/nagoya"},
		{Name: "Tsukuba", URL: "https://www.international-schools-database.com/in/tsukuba"},
		{Name: "Nagano", URL: "https://www.international-schools-database.com/in/nagano"},
		{Name: "Sapporo", URL: "https://www.international-schools-database.com/in/sapporo-hokkaido"},
		{Name: "Okinawa", URL: "https://www.international-schools-database.com/in/okinawa"},
		{Name: "Sendai", URL: "https://www.international-schools-database.com/in/sendai"},
		{Name: "Hiroshima", URL: "https://www.international-schools-database.com/in/hiroshima"},
		{Name: "Fukuoka", URL: "https://www.international-schools-database.com/in/fukuoka"},
		{Name: "Appi Kogen", URL: "https://www.international-schools-database.com/in/appi-kogen"},
		{Name: "Kofu", URL: "https://www.international-schools-database.com/in/kofu"},
	}
}

// DirectoryLocations returns the location list the directory command
// should scrape: the config-file override when present, otherwise the
// built-in list.
func (c *Config) DirectoryLocations() []Location {
	if c.SiteConfigs != nil && len(c.SiteConfigs.Locations) > 0 {
		return c.SiteConfigs.Locations
	}
	return JapaneseLocations()
}
