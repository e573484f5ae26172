package roster

// DisplayHeaders maps exporter column keys to the display headers the
// quotation dataset uses. Applied by the rename command before merging, so
// both sides of a union share one header vocabulary.
var DisplayHeaders = map[string]string{
	"ruolo":                     "R",
	"ruoloMantra":               "RM",
	"nome":                      "Nome",
	"squadra":                   "Squadra",
	"quotazioneAttualeClassic":  "Qt.A",
	"quotazioneInizialeClassic": "Qt.I",
	"differenzaClassic":         "Diff.",
	"quotazioneAttualeMantra":   "Qt.A M",
	"quotazioneInizialeMantra":  "Qt.I M",
	"differenzaMantra":          "Diff.M",
	"fvmClassic":                "FVM",
	"fvmMantra":                 "FVM M",
	"pv":                        "Pv",
	"mv":                        "Mv",
	"fm":                        "Fm",
	"autogol":                   "Au",
}
