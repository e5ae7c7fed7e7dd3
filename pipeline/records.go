package pipeline

import (
	"fmt"
	"math/rand"
)

// Header is the fixed first line of every Core A output file (spec.md §6).
const Header = "ID,Nombre,Edad,Ciudad,Fuente"

// names and cities are the fixed pools spec.md §6 leaves unspecified beyond
// "drawn from fixed pools". Values and the age range [18, 78] are taken
// verbatim from original_source/ejercicio01/app.cpp's generarRegistroAleatorio,
// per the rule that original_source resolves spec ambiguity.
var names = []string{
	"Ana", "Luis", "Mica", "Tomas", "Sofia", "Lucas", "Valen", "Agus", "Cesar", "Lauti",
}

var cities = []string{
	"Buenos Aires", "Cordoba", "Rosario", "La Plata", "Salta", "Mendoza", "Mar del Plata",
}

// formatRecord builds one CSV data line: <id>,<name>,<age>,<city>,Gen<childIndex>.
func formatRecord(rnd *rand.Rand, id, childIndex int) string {
	name := names[rnd.Intn(len(names))]
	age := 18 + rnd.Intn(61) // [18, 78]
	city := cities[rnd.Intn(len(cities))]

	return fmt.Sprintf("%d,%s,%d,%s,Gen%d", id, name, age, city, childIndex)
}
