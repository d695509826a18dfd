// Package feature defines the static catalog of bizdeck features.
// The catalog is declared once at process start and never mutated; panels
// are looked up by feature ID and IDs without a panel render as placeholders.
package feature

// ID identifies a feature in the catalog.
type ID string

const (
	Dashboard      ID = "dashboard"
	ChatAdvisor    ID = "chat_advisor"
	ListingFactory ID = "listing_factory"
	Vault          ID = "vault"
	CampaignWriter ID = "campaign_writer"
	TrendScout     ID = "trend_scout"
	InvoiceRobot   ID = "invoice_robot"
	InboxTriage    ID = "inbox_triage"
)

// Category groups features on the dashboard.
type Category string

const (
	CategoryStrategic   Category = "Strategic"
	CategoryCreative    Category = "Creative"
	CategoryOperational Category = "Operational"
	CategoryControl     Category = "Control"
)

// Feature is a static descriptor for one catalog entry.
type Feature struct {
	ID          ID
	Name        string
	Description string
	Icon        string
	Category    Category
	HasPanel    bool
}

// Catalog lists every feature in display order. Entries without an
// implemented panel still appear here so the dashboard can advertise them.
var Catalog = []Feature{
	{
		ID:          Dashboard,
		Name:        "Command Deck",
		Description: "Overview of every automation and quick actions",
		Icon:        "home",
		Category:    CategoryControl,
		HasPanel:    true,
	},
	{
		ID:          ChatAdvisor,
		Name:        "Business Advisor",
		Description: "Conversational strategy advisor for your business",
		Icon:        "chat",
		Category:    CategoryStrategic,
		HasPanel:    true,
	},
	{
		ID:          ListingFactory,
		Name:        "Listing Factory",
		Description: "Generate product titles, copy and imagery from one prompt",
		Icon:        "tag",
		Category:    CategoryCreative,
		HasPanel:    true,
	},
	{
		ID:          Vault,
		Name:        "Credential Vault",
		Description: "Store provider credentials for your integrations",
		Icon:        "lock",
		Category:    CategoryControl,
		HasPanel:    true,
	},
	{
		ID:          TrendScout,
		Name:        "Trend Scout",
		Description: "Spot market trends before your competitors do",
		Icon:        "radar",
		Category:    CategoryStrategic,
	},
	{
		ID:          CampaignWriter,
		Name:        "Campaign Writer",
		Description: "Draft multi-channel marketing campaigns",
		Icon:        "megaphone",
		Category:    CategoryCreative,
	},
	{
		ID:          InvoiceRobot,
		Name:        "Invoice Robot",
		Description: "Automate invoice drafting and reminders",
		Icon:        "invoice",
		Category:    CategoryOperational,
	},
	{
		ID:          InboxTriage,
		Name:        "Inbox Triage",
		Description: "Sort and prioritize customer messages automatically",
		Icon:        "inbox",
		Category:    CategoryOperational,
	},
}

// Lookup returns the catalog entry for id.
func Lookup(id ID) (Feature, bool) {
	for _, f := range Catalog {
		if f.ID == id {
			return f, true
		}
	}
	return Feature{}, false
}

// ByCategory returns catalog entries for one category in display order.
func ByCategory(c Category) []Feature {
	var out []Feature
	for _, f := range Catalog {
		if f.Category == c {
			out = append(out, f)
		}
	}
	return out
}
