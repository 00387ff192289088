package domain

// Benefit describes one entry of the public benefit catalogue.
type Benefit struct {
	Type        BenefitType
	Title       string
	Description string
}

// BenefitCatalogue returns the benefit tracks a citizen can apply for.
func BenefitCatalogue() []Benefit {
	return []Benefit{
		{Type: BenefitFamily, Title: "Family", Description: "Support for households with dependants."},
		{Type: BenefitIndividual, Title: "Adult over 21", Description: "Support for individual adults over the age of 21."},
		{Type: BenefitMinor, Title: "Young person", Description: "Support for applicants under the age of 21."},
	}
}
