// legacysch converts legacy schematic record dumps into .kicad_sch files
package main

import "github.com/OpenTraceLab/legacysch/cmd/legacysch/cmd"

func main() {
	cmd.Execute()
}
