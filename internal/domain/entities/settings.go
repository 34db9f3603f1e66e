package entities

// KashrutLevel is the traveler's kashrut strictness preference
type KashrutLevel string

const (
	KashrutStandard  KashrutLevel = "Стандарт"
	KashrutGlatt     KashrutLevel = "Глат"
	KashrutBeitYosef KashrutLevel = "Бейт Йосеф"
	KashrutMehadrin  KashrutLevel = "Меадрин"
)

// Nusach is the traveler's prayer-rite preference
type Nusach string

const (
	NusachAshkenaz     Nusach = "Ашкеназ"
	NusachSefard       Nusach = "Сефард"
	NusachChabad       Nusach = "Хабад"
	NusachEdotHamizrah Nusach = "Эдот а-Мизрах"
)

// KashrutLevels lists the valid kashrut options
func KashrutLevels() []KashrutLevel {
	return []KashrutLevel{KashrutStandard, KashrutGlatt, KashrutBeitYosef, KashrutMehadrin}
}

// Nusachim lists the valid nusach options
func Nusachim() []Nusach {
	return []Nusach{NusachAshkenaz, NusachSefard, NusachChabad, NusachEdotHamizrah}
}

// IsValid reports whether k is a known kashrut level
func (k KashrutLevel) IsValid() bool {
	for _, v := range KashrutLevels() {
		if v == k {
			return true
		}
	}
	return false
}

// IsValid reports whether n is a known nusach
func (n Nusach) IsValid() bool {
	for _, v := range Nusachim() {
		if v == n {
			return true
		}
	}
	return false
}

// AppSettings is the flat record of user preferences. It is read by both
// collaborator call paths as grounding context.
type AppSettings struct {
	KashrutLevel  KashrutLevel `json:"kashrutLevel"`
	Nusach        Nusach       `json:"nusach"`
	Notifications bool         `json:"notifications"`
	DarkMode      bool         `json:"darkMode"`
}

// DefaultSettings returns the settings applied before the user changes
// anything, and whenever a stored document is missing or malformed.
func DefaultSettings() AppSettings {
	return AppSettings{
		KashrutLevel:  KashrutGlatt,
		Nusach:        NusachAshkenaz,
		Notifications: true,
		DarkMode:      false,
	}
}

// Normalize coerces out-of-set values back to defaults. Stored documents
// predate validation, so a reader must tolerate anything.
func (s AppSettings) Normalize() AppSettings {
	if !s.KashrutLevel.IsValid() {
		s.KashrutLevel = KashrutGlatt
	}
	if !s.Nusach.IsValid() {
		s.Nusach = NusachAshkenaz
	}
	return s
}
