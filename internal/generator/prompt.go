package generator

import (
	"fmt"
	"strings"
	"sync"

	"github.com/DjordjeVuckovic/news-desk/internal/domain"
	"github.com/DjordjeVuckovic/news-desk/pkg/schema"
)

const systemInstructions = `Eres un periodista especializado en tecnología e inteligencia artificial.
Analiza la URL y crea un artículo original en español, con tono profesional pero accesible.
Responde EXCLUSIVAMENTE con un objeto JSON válido, sin texto adicional.`

var articleSchema = sync.OnceValues(func() (string, error) {
	return schema.NewGenerator(schema.WithBare(), schema.WithClosedObjects()).
		GenerateJSONSchema(domain.GeneratedArticle{})
})

// buildPrompt renders the user instruction. sourceText may be empty.
func buildPrompt(sourceURL, schemaJSON, sourceText string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Genera un artículo periodístico completo basado en esta URL: %q\n\n", sourceURL)
	b.WriteString("El contenido debe tener 3-4 párrafos en HTML con etiquetas <p></p> ")
	b.WriteString("y el resumen un máximo de 150 caracteres.\n\n")
	b.WriteString("El formato de respuesta DEBE ser un objeto JSON que cumpla este esquema:\n")
	b.WriteString(schemaJSON)
	b.WriteString("\n\nNO incluyas ningún otro texto fuera del objeto JSON.")

	if sourceText != "" {
		b.WriteString("\n\nTexto de la página original:\n---\n")
		b.WriteString(sourceText)
		b.WriteString("\n---")
	}
	return b.String()
}
