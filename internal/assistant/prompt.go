package assistant

import (
	"fmt"
	"strings"

	"github.com/erazemk/gripcheck/internal/model"
)

// VoiceInstruction is the system instruction for live voice sessions.
const VoiceInstruction = "You are a helpful Key Grip assistant named GripBot. Use tools to manage inventory."

// InventoryLines renders one line per item for the model's context.
func InventoryLines(items []model.Equipment) string {
	var b strings.Builder
	for i, it := range items {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "- %s (%s): %s", it.Name, it.SerialNumber, it.Status)
		if it.CurrentHolder != "" {
			fmt.Fprintf(&b, " held by %s", it.CurrentHolder)
		}
		if it.CurrentProject != "" {
			fmt.Fprintf(&b, " on project %s", it.CurrentProject)
		}
	}
	return b.String()
}

// ChatInstruction builds the chat system instruction around the current
// inventory.
func ChatInstruction(items []model.Equipment) string {
	return `You are "GripBot", the master inventory manager for a major film studio.
You assist the Grip and Electric departments. You can PERFORM ACTIONS like check-outs, check-ins and damage reports.

Current Inventory:
` + InventoryLines(items) + `

Guidelines:
1. Be concise, technical, and high-energy.
2. When gear is returned damaged, use 'reportDamage'.
3. You can provide kit lists for specific lighting setups (e.g., 'What do I need for a 3-point interview setup?').
4. Safety first.`
}

// ImagePrompt describes the product shot generated for a piece of gear.
func ImagePrompt(equipmentName string) string {
	return fmt.Sprintf(`A professional, hyper-realistic commercial photograph of a %s.
This is high-end film studio gear (Grip and Lighting department).
Features: Heavy-duty metal textures, industrial finish, Matthews or Avenger equipment aesthetic, matte black or chrome surfaces.
Lighting: Clean 3-point studio lighting with high-contrast shadows.
Background: Neutral dark grey concrete studio floor, minimal and modern.
Composition: 4:3 landscape frame.
Technical quality: 8k resolution, razor sharp detail, shallow depth of field.`, equipmentName)
}
