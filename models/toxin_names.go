package models

// HighConfidenceMycotoxinNames sind Namensfragmente regulierter bzw. gut belegter Mykotoxine.
var HighConfidenceMycotoxinNames = []string{
	"aflatoxin",
	"citrinin",
	"fumonisin",
	"ochratoxin",
	"patulin",
	"sterigmatocystin",
	"trichothecene",
	"deoxynivalenol",
	"nivalenol",
	"zearalenone",
	"t-2",
	"ht-2",
}

// ExtendedMycotoxinNames ergänzen die Liste um seltener annotierte Toxine.
var ExtendedMycotoxinNames = []string{
	"citreoviridin",
	"fusarin",
	"nitropropionic acid",
	"neosolaniol",
	"diacetoxyscirpenol",
	"fusarenon",
}
