package services

// CompanySeed is a pre-populated well-known employer. The resolver
// materializes a full company record from a seed when a submitted name has
// no match in the directory yet.
type CompanySeed struct {
	Name        string
	DisplayName string
	Aliases     []string
	Logo        string
	Industry    string
	Size        string
	Linkedin    map[string]string
}

// DefaultCompanySeeds covers the employers that show up in almost every
// placement season, so their first submission gets real metadata instead of
// a guessed logo.
var DefaultCompanySeeds = []CompanySeed{
	{
		Name: "google", DisplayName: "Google",
		Aliases:  []string{"google", "google inc", "alphabet"},
		Logo:     "https://logo.clearbit.com/google.com",
		Industry: "Technology", Size: "10000+",
		Linkedin: map[string]string{"url": "https://www.linkedin.com/company/google"},
	},
	{
		Name: "microsoft", DisplayName: "Microsoft",
		Aliases:  []string{"microsoft", "msft", "microsoft corporation"},
		Logo:     "https://logo.clearbit.com/microsoft.com",
		Industry: "Technology", Size: "10000+",
		Linkedin: map[string]string{"url": "https://www.linkedin.com/company/microsoft"},
	},
	{
		Name: "amazon", DisplayName: "Amazon",
		Aliases:  []string{"amazon", "amazon.com", "aws"},
		Logo:     "https://logo.clearbit.com/amazon.com",
		Industry: "Technology", Size: "10000+",
		Linkedin: map[string]string{"url": "https://www.linkedin.com/company/amazon"},
	},
	{
		Name: "infosys", DisplayName: "Infosys",
		Aliases:  []string{"infosys", "infosys limited"},
		Logo:     "https://logo.clearbit.com/infosys.com",
		Industry: "IT Services", Size: "10000+",
		Linkedin: map[string]string{"url": "https://www.linkedin.com/company/infosys"},
	},
	{
		Name: "tata consultancy services", DisplayName: "Tata Consultancy Services",
		Aliases:  []string{"tata consultancy services", "tcs"},
		Logo:     "https://logo.clearbit.com/tcs.com",
		Industry: "IT Services", Size: "10000+",
		Linkedin: map[string]string{"url": "https://www.linkedin.com/company/tata-consultancy-services"},
	},
	{
		Name: "wipro", DisplayName: "Wipro",
		Aliases:  []string{"wipro", "wipro limited"},
		Logo:     "https://logo.clearbit.com/wipro.com",
		Industry: "IT Services", Size: "10000+",
		Linkedin: map[string]string{"url": "https://www.linkedin.com/company/wipro"},
	},
	{
		Name: "goldman sachs", DisplayName: "Goldman Sachs",
		Aliases:  []string{"goldman sachs", "gs", "goldman"},
		Logo:     "https://logo.clearbit.com/goldmansachs.com",
		Industry: "Financial Services", Size: "10000+",
		Linkedin: map[string]string{"url": "https://www.linkedin.com/company/goldman-sachs"},
	},
	{
		Name: "flipkart", DisplayName: "Flipkart",
		Aliases:  []string{"flipkart", "flipkart internet"},
		Logo:     "https://logo.clearbit.com/flipkart.com",
		Industry: "E-commerce", Size: "10000+",
		Linkedin: map[string]string{"url": "https://www.linkedin.com/company/flipkart"},
	},
}

// matches reports whether the normalized name hits this seed's name,
// display name or any alias.
func (s CompanySeed) matches(normalized string) bool {
	if s.Name == normalized {
		return true
	}
	for _, alias := range s.Aliases {
		if alias == normalized {
			return true
		}
	}
	return false
}
