package assistant

import "google.golang.org/genai"

// Tools declares the action vocabulary to the model.
func Tools() []*genai.Tool {
	str := func(desc string) *genai.Schema {
		return &genai.Schema{Type: genai.TypeString, Description: desc}
	}

	return []*genai.Tool{{
		FunctionDeclarations: []*genai.FunctionDeclaration{
			{
				Name:        NameCheckOutGear,
				Description: "Check out a piece of equipment to a specific person and optional project.",
				Parameters: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"serialNumber": str("The serial number of the gear."),
						"userName":     str("The name of the crew member."),
						"project":      str("The name of the production or project."),
					},
					Required: []string{"serialNumber", "userName"},
				},
			},
			{
				Name:        NameCheckInGear,
				Description: "Check in a piece of equipment back to the inventory.",
				Parameters: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"serialNumber": str("The serial number of the gear to return."),
						"notes":        str("Optional return notes about condition."),
					},
					Required: []string{"serialNumber"},
				},
			},
			{
				Name:        NameReportDamage,
				Description: "Flag a piece of gear as damaged.",
				Parameters: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"serialNumber": str("Serial number of the damaged item."),
						"description":  str("Description of the damage."),
					},
					Required: []string{"serialNumber", "description"},
				},
			},
			{
				Name:        NameGetInventorySummary,
				Description: "Get a summary of inventory by category or project.",
				Parameters: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"category": str("Optional category filter."),
						"project":  str("Optional project filter."),
					},
				},
			},
		},
	}}
}
