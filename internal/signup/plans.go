package signup

import "github.com/assocosmetologie/backend/internal/models"

// Plan describes a membership offer shown on step 2
type Plan struct {
	ID          models.MembershipPlan
	Title       string
	Description string
	// AnnualPrice is in euros
	AnnualPrice float64
	Recommended bool
}

// Plans lists the membership offers in display order
var Plans = []Plan{
	{ID: models.PlanStudent, Title: "Étudiant", Description: "Pour les étudiants en cosmétologie", AnnualPrice: 25},
	{ID: models.PlanIndividual, Title: "Individuel", Description: "Pour les professionnels indépendants", AnnualPrice: 80},
	{ID: models.PlanCorporate, Title: "Entreprise", Description: "Pour les entreprises et institutions", AnnualPrice: 350, Recommended: true},
}

// DefaultPlan is preselected when the wizard starts
const DefaultPlan = models.PlanIndividual

// FindPlan returns the offer with the given id
func FindPlan(id models.MembershipPlan) (Plan, bool) {
	for _, p := range Plans {
		if p.ID == id {
			return p, true
		}
	}
	return Plan{}, false
}
