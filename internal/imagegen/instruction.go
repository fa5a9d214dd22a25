package imagegen

import "strings"

// DefaultSystemPrompt is the compiled-in try-on prompt. IMAGE_A is the
// customer photo and IMAGE_B the garment, sent in that order.
const DefaultSystemPrompt = `TASK:
Take the customer’s full-body photo (IMAGE_A) and replace their clothing with the garment shown in the catalog image (IMAGE_B).

REQUIREMENTS:
1. Preserve the customer’s face, hair, skin tone, hands, body shape, and natural proportions exactly as in IMAGE_A.
2. Apply the garment from IMAGE_B onto the customer’s body with correct alignment, pose matching, shoulder position, sleeve position, drape, and fabric flow.
3. Keep the garment’s original color, embroidery, shine, texture, and design exactly as in IMAGE_B.
4. Blend lighting and shadows so the outfit looks naturally worn by the customer without distortion or artifacts.
5. Maintain realism: no changes to the customer’s identity, background, or body except replacing clothing.
6. Output a photorealistic final image where the customer appears to be wearing the exact garment from IMAGE_B.`

// QAPrompt asks the text model to score a generated try-on.
const QAPrompt = `Analyze the generated image for anatomical correctness, fabric realism, and mask adherence.
Return a confidence score between 0.0 and 1.0 based on how realistic the try-on looks.
Reply with the number only.`

// BuildInstruction appends the user's styling instructions to the system prompt.
func BuildInstruction(systemPrompt, instructions string) string {
	prompt := strings.TrimSpace(systemPrompt)
	if prompt == "" {
		prompt = DefaultSystemPrompt
	}
	parts := []string{prompt}
	if extra := strings.TrimSpace(instructions); extra != "" {
		parts = append(parts, "ADDITIONAL STYLING INSTRUCTIONS:\n"+extra)
	}
	parts = append(parts, "IMAGE_A is the first image, IMAGE_B is the second image.")
	return strings.Join(parts, "\n\n")
}

// BuildEditInstruction wraps a free-text edit request.
func BuildEditInstruction(instruction string) string {
	return "Edit this image: " + strings.TrimSpace(instruction) +
		"\nKeep the person, the garment and the framing unchanged unless the instruction asks otherwise."
}
