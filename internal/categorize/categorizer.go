package categorize

import (
	"log/slog"
	"strings"

	"github.com/nathanfields/invoice-cataloger/constants"
)

// KeywordCategory is one category with its match keywords. The table is a
// slice, not a map: earlier categories win ties, so the match order is
// part of the contract.
type KeywordCategory struct {
	Name     string
	Keywords []string
}

// Categorizer assigns an expense category from vendor name, description
// and line items. Enabled vendor overrides take precedence over the
// keyword table; anything unmatched falls back to "Other".
type Categorizer struct {
	overrides []VendorOverride
	table     []KeywordCategory
	log       *slog.Logger
}

func NewCategorizer(overrides []VendorOverride, table []KeywordCategory, log *slog.Logger) *Categorizer {
	if table == nil {
		table = DefaultKeywordTable()
	}
	if log == nil {
		log = slog.Default()
	}
	return &Categorizer{overrides: overrides, table: table, log: log}
}

// Categorize matches overrides first (case-insensitive substring on the
// vendor name only), then scans the combined text of vendor, description
// and line items against the keyword table in order.
func (c *Categorizer) Categorize(vendorName, description string, lineItems []string) string {
	vendorLower := strings.ToLower(vendorName)
	for _, o := range c.overrides {
		if !o.Enabled || o.VendorPattern == "" {
			continue
		}
		if strings.Contains(vendorLower, strings.ToLower(o.VendorPattern)) {
			c.log.Debug("categorize.override_hit", "vendor", vendorName, "pattern", o.VendorPattern, "category", o.Category)
			return o.Category
		}
	}

	var b strings.Builder
	b.WriteString(vendorName)
	b.WriteString(" ")
	b.WriteString(description)
	for _, item := range lineItems {
		b.WriteString(" ")
		b.WriteString(item)
	}
	searchText := strings.ToLower(b.String())

	for _, cat := range c.table {
		for _, kw := range cat.Keywords {
			if strings.Contains(searchText, kw) {
				return cat.Name
			}
		}
	}
	return constants.FallbackCategory
}

// AllCategories lists every category the table can produce, fallback
// included.
func (c *Categorizer) AllCategories() []string {
	out := make([]string, 0, len(c.table)+1)
	for _, cat := range c.table {
		out = append(out, cat.Name)
	}
	return append(out, constants.FallbackCategory)
}

// DefaultKeywordTable is the built-in taxonomy. Keywords are lowercase;
// vendor names cover the common Australian merchants.
func DefaultKeywordTable() []KeywordCategory {
	return []KeywordCategory{
		{"Food & Groceries", []string{
			"food", "grocery", "groceries", "supermarket", "woolworths", "coles",
			"aldi", "iga", "restaurant", "cafe", "coffee", "lunch", "dinner",
			"breakfast", "meal", "catering", "uber eats", "menulog", "deliveroo",
			"doordash", "hungry jack", "mcdonald", "kfc", "subway", "domino",
		}},
		{"Electronics", []string{
			"electronics", "electronic", "jb hi-fi", "jb hifi", "harvey norman",
			"good guys", "bing lee", "appliance", "tv", "television", "camera",
			"headphones", "speaker", "audio", "video", "gaming", "console",
			"playstation", "xbox", "nintendo",
		}},
		{"Software & Subscriptions", []string{
			"software", "license", "subscription", "saas", "ide", "github", "azure",
			"aws", "jetbrains", "microsoft", "adobe", "npm", "python", "annual",
			"monthly", "cloud", "hosting", "domain", "ssl", "api", "dropbox",
			"google workspace", "office 365", "slack", "zoom", "notion", "figma",
			"canva", "visual studio", "intellij", "pycharm", "webstorm",
		}},
		{"Computer Equipment", []string{
			"computer", "laptop", "monitor", "keyboard", "mouse", "hardware", "dell",
			"hp", "lenovo", "macbook", "ipad", "tablet", "printer", "scanner",
			"webcam", "microphone", "usb", "cable", "adapter", "dock", "ssd",
			"hard drive", "ram", "memory", "cpu", "gpu", "motherboard",
		}},
		{"Electricity", []string{
			"electricity", "energy", "power", "electric", "eora", "ergon", "ausgrid",
			"energex", "agl", "origin", "red energy", "simply energy", "alinta",
			"powershop", "momentum energy",
		}},
		{"Internet", []string{
			"internet", "isp", "broadband", "nbn", "telstra", "optus", "vodafone",
			"data", "tpg", "aussie broadband", "superloop", "belong", "wifi",
			"modem", "router", "dodo", "iinet",
		}},
		{"Phone & Mobile", []string{
			"phone", "mobile", "telco", "mobile plan", "sim", "smartphone", "iphone",
			"samsung", "android", "prepaid", "postpaid", "amaysim", "boost",
			"kogan mobile", "catch connect", "aldi mobile",
		}},
		{"Professional Development", []string{
			"training", "course", "udemy", "pluralsight", "education", "conference",
			"seminar", "masterclass", "workshop", "certification", "exam", "learning",
			"tutorial", "bootcamp", "coursera", "linkedin learning", "skillshare",
			"codecademy", "treehouse", "datacamp",
		}},
		{"Professional Membership", []string{
			"association", "membership", "professional", "society", "aca", "ieee",
			"acm", "annual fee", "registration", "accreditation", "acs", "aia",
		}},
		{"Office Supplies", []string{
			"office", "stationery", "supplies", "paper", "pen", "desk", "chair",
			"filing", "officeworks", "staples", "notebook", "folder", "binder",
			"whiteboard", "marker", "ink", "toner", "cartridge",
		}},
		{"Communication Tools", []string{
			"communication", "voip", "skype", "teams", "zoom", "slack", "discord",
			"webex", "gotomeeting", "conferencing", "video call", "ringcentral",
			"8x8", "dialpad",
		}},
		{"Transportation", []string{
			"transport", "uber", "taxi", "lyft", "didi", "ola", "petrol", "fuel",
			"gas", "parking", "toll", "car", "vehicle", "automotive", "service",
			"maintenance", "registration", "rego", "ctp", "greenslip",
		}},
		{"Clothing & Apparel", []string{
			"clothing", "clothes", "apparel", "shirt", "pants", "shoes", "jacket",
			"dress", "fashion", "wear", "footwear", "uniqlo", "zara", "h&m",
			"target", "kmart", "big w", "myer", "david jones",
		}},
		{"Health & Medical", []string{
			"health", "medical", "doctor", "pharmacy", "chemist", "medicine",
			"prescription", "dental", "dentist", "optometry", "glasses",
			"physiotherapy", "physio", "hospital", "clinic", "medicare", "pbs",
		}},
		{"Home & Garden", []string{
			"home", "garden", "bunnings", "mitre 10", "hardware", "tools", "paint",
			"furniture", "ikea", "fantastic furniture", "homeware", "decor",
			"renovation", "repair", "plumbing", "electrical",
		}},
		{"Entertainment & Media", []string{
			"entertainment", "netflix", "spotify", "disney", "amazon prime", "stan",
			"binge", "kayo", "foxtel", "streaming", "music", "movie", "cinema",
			"theatre", "event", "ticket", "concert", "apple music", "youtube premium",
		}},
		{"Books & Publications", []string{
			"book", "books", "publication", "magazine", "journal", "kindle", "ebook",
			"audiobook", "audible", "bookstore", "dymocks", "booktopia", "amazon books",
			"scribd", "o'reilly",
		}},
		{"Insurance", []string{
			"insurance", "policy", "premium", "cover", "coverage", "life insurance",
			"health insurance", "car insurance", "home insurance", "contents insurance",
			"income protection",
		}},
		{"Banking & Finance", []string{
			"bank", "banking", "fee", "account fee", "transaction fee", "atm",
			"interest", "loan", "credit card", "debit card", "financial", "investment",
			"commonwealth", "westpac", "anz", "nab",
		}},
		{"Utilities & Services", []string{
			"utility", "utilities", "water", "gas", "sewerage", "council", "rates",
			"waste", "garbage", "bin", "service fee", "sydney water", "yarra valley water",
		}},
	}
}
