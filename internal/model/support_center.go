package model

import "time"

// Zones group districts for geographic filtering of support centers.
const (
	ZoneLimaCentro  = "Lima Centro"
	ZoneLimaNorte   = "Lima Norte"
	ZoneLimaEste    = "Lima Este"
	ZoneLimaSur     = "Lima Sur"
	ZoneLimaModerna = "Lima Moderna"
	ZoneCallao      = "Callao"
)

// Zones lists the six zones in display order.
var Zones = []string{
	ZoneLimaCentro, ZoneLimaNorte, ZoneLimaEste, ZoneLimaSur, ZoneLimaModerna, ZoneCallao,
}

// DistrictZones maps every district of the fixed enumeration to its zone.
// A district outside this table is rejected at the service boundary.
var DistrictZones = map[string]string{
	"LIMA":        ZoneLimaCentro,
	"BREÑA":       ZoneLimaCentro,
	"LA_VICTORIA": ZoneLimaCentro,
	"RIMAC":       ZoneLimaCentro,

	"CARABAYLLO":           ZoneLimaNorte,
	"COMAS":                ZoneLimaNorte,
	"INDEPENDENCIA":        ZoneLimaNorte,
	"LOS_OLIVOS":           ZoneLimaNorte,
	"PUENTE_PIEDRA":        ZoneLimaNorte,
	"SAN_MARTIN_DE_PORRES": ZoneLimaNorte,

	"ATE":                    ZoneLimaEste,
	"CIENEGUILLA":            ZoneLimaEste,
	"EL_AGUSTINO":            ZoneLimaEste,
	"SAN_JUAN_DE_LURIGANCHO": ZoneLimaEste,
	"SAN_LUIS":               ZoneLimaEste,
	"SANTA_ANITA":            ZoneLimaEste,

	"BARRANCO":                ZoneLimaSur,
	"CHORRILLOS":              ZoneLimaSur,
	"PACHACAMAC":              ZoneLimaSur,
	"PUNTA_HERMOSA":           ZoneLimaSur,
	"PUNTA_NEGRA":             ZoneLimaSur,
	"SAN_JUAN_DE_MIRAFLORES":  ZoneLimaSur,
	"VILLA_EL_SALVADOR":       ZoneLimaSur,
	"VILLA_MARIA_DEL_TRIUNFO": ZoneLimaSur,

	"JESUS_MARIA":       ZoneLimaModerna,
	"LINCE":             ZoneLimaModerna,
	"MAGDALENA_DEL_MAR": ZoneLimaModerna,
	"MIRAFLORES":        ZoneLimaModerna,
	"PUEBLO_LIBRE":      ZoneLimaModerna,
	"SAN_BORJA":         ZoneLimaModerna,
	"SAN_ISIDRO":        ZoneLimaModerna,
	"SAN_MIGUEL":        ZoneLimaModerna,
	"SANTIAGO_DE_SURCO": ZoneLimaModerna,
	"SURQUILLO":         ZoneLimaModerna,

	"CALLAO": ZoneCallao,
}

// DistrictLabels maps district enum values to display labels.
var DistrictLabels = map[string]string{
	"LIMA":                    "Lima Cercado",
	"BREÑA":                   "Breña",
	"LA_VICTORIA":             "La Victoria",
	"RIMAC":                   "Rímac",
	"CARABAYLLO":              "Carabayllo",
	"COMAS":                   "Comas",
	"INDEPENDENCIA":           "Independencia",
	"LOS_OLIVOS":              "Los Olivos",
	"PUENTE_PIEDRA":           "Puente Piedra",
	"SAN_MARTIN_DE_PORRES":    "San Martín de Porres",
	"ATE":                     "Ate",
	"CIENEGUILLA":             "Cieneguilla",
	"EL_AGUSTINO":             "El Agustino",
	"SAN_JUAN_DE_LURIGANCHO":  "San Juan de Lurigancho",
	"SAN_LUIS":                "San Luis",
	"SANTA_ANITA":             "Santa Anita",
	"BARRANCO":                "Barranco",
	"CHORRILLOS":              "Chorrillos",
	"PACHACAMAC":              "Pachacámac",
	"PUNTA_HERMOSA":           "Punta Hermosa",
	"PUNTA_NEGRA":             "Punta Negra",
	"SAN_JUAN_DE_MIRAFLORES":  "San Juan de Miraflores",
	"VILLA_EL_SALVADOR":       "Villa El Salvador",
	"VILLA_MARIA_DEL_TRIUNFO": "Villa María del Triunfo",
	"JESUS_MARIA":             "Jesús María",
	"LINCE":                   "Lince",
	"MAGDALENA_DEL_MAR":       "Magdalena del Mar",
	"MIRAFLORES":              "Miraflores",
	"PUEBLO_LIBRE":            "Pueblo Libre",
	"SAN_BORJA":               "San Borja",
	"SAN_ISIDRO":              "San Isidro",
	"SAN_MIGUEL":              "San Miguel",
	"SANTIAGO_DE_SURCO":       "Santiago de Surco",
	"SURQUILLO":               "Surquillo",
	"CALLAO":                  "Callao",
}

// SupportCenter is a physical assistance location shown to victims.
type SupportCenter struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Street    string    `json:"street"`
	District  string    `json:"district"`
	Zone      string    `json:"zone"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	Schedule  string    `json:"schedule"`
	IsActive  bool      `json:"isActive"`
	CreatedBy string    `json:"createdBy,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// SupportCenterRequest is the admin create/update payload.
type SupportCenterRequest struct {
	Name     string `json:"name" binding:"required"`
	Street   string `json:"street" binding:"required"`
	District string `json:"district" binding:"required"`
	Phone    string `json:"phone" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Schedule string `json:"schedule" binding:"required"`
	IsActive *bool  `json:"isActive,omitempty"`
}

// SupportCenterFilters narrows center listings. Empty values are no-ops.
type SupportCenterFilters struct {
	Search   string
	District string
	Zone     string
}

// ValidDistrict reports whether the district belongs to the fixed enumeration.
func ValidDistrict(d string) bool {
	_, ok := DistrictZones[d]
	return ok
}

// ZoneOf returns the zone a district belongs to, or "" for unknown districts.
func ZoneOf(district string) string {
	return DistrictZones[district]
}
