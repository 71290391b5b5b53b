package journey

import (
	"fmt"
	"strings"
)

// AllCampaigns selects the all-campaigns view.
const AllCampaigns = "all"

// DefaultScore is used for every campaign-effectiveness sub-metric a
// content record leaves out.
const DefaultScore = 75

const fallbackAudience = "General audience"

// DefaultKeyActions is assigned to content without key actions.
var DefaultKeyActions = []string{"View", "Share", "Learn More"}

var campaignAudiences = map[string]string{
	"summer":          "Young adults 18-34 planning seasonal travel and outdoor activities",
	"holiday":         "Gift shoppers and families preparing for the holidays",
	"back to school":  "Parents of school-age children and returning students",
	"spring launch":   "Early adopters following new product releases",
	"black friday":    "Deal-seeking shoppers comparing limited-time offers",
	"brand awareness": "Prospective customers discovering the brand for the first time",
}

// IsAllCampaigns reports whether campaign denotes the all-campaigns view.
func IsAllCampaigns(campaign string) bool {
	c := strings.TrimSpace(campaign)
	return c == "" || strings.EqualFold(c, AllCampaigns)
}

// Key derives the storage key of the map for a brand and campaign.
func Key(brand, campaign string) string {
	if IsAllCampaigns(campaign) {
		campaign = AllCampaigns
	}
	return fmt.Sprintf("journey-map-%s-%s", strings.TrimSpace(brand), strings.TrimSpace(campaign))
}

// DefaultTitle is the title given to a new or cleared map.
func DefaultTitle(campaign string) string {
	if IsAllCampaigns(campaign) {
		return "Campaign Journey"
	}
	return strings.TrimSpace(campaign) + " Journey"
}

// DefaultAudience looks up the audience description for a campaign.
func DefaultAudience(campaign string) string {
	if a, ok := campaignAudiences[strings.ToLower(strings.TrimSpace(campaign))]; ok {
		return a
	}
	return fallbackAudience
}

// WithDefaults fills the display fields a record omitted. The audience is
// keyed by the record's campaign, or by campaign when the record has none.
func WithDefaults(c Content, campaign string) Content {
	c = c.clone()
	if c.Campaign == "" && !IsAllCampaigns(campaign) {
		c.Campaign = campaign
	}
	if c.Audience == "" {
		c.Audience = DefaultAudience(c.Campaign)
	}
	if len(c.KeyActions) == 0 {
		c.KeyActions = append([]string(nil), DefaultKeyActions...)
	}
	if c.CampaignScores == nil {
		c.CampaignScores = &CampaignScores{
			Awareness:  DefaultScore,
			Engagement: DefaultScore,
			Conversion: DefaultScore,
			Retention:  DefaultScore,
		}
	}
	return c
}
