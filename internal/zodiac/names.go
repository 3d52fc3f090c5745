package zodiac

import "fmt"

// Script selects the label alphabet for sign and nakshatra names.
type Script int

const (
	English Script = iota
	Sanskrit
	Devanagari
)

func (s Script) String() string {
	switch s {
	case English:
		return "english"
	case Sanskrit:
		return "sanskrit"
	case Devanagari:
		return "devanagari"
	default:
		return "unknown"
	}
}

// ParseScript maps a config/flag value onto a Script.
func ParseScript(s string) (Script, bool) {
	switch s {
	case "", "english", "en":
		return English, true
	case "sanskrit", "iast":
		return Sanskrit, true
	case "devanagari", "hi":
		return Devanagari, true
	default:
		return English, false
	}
}

// MarshalText encodes the script name.
func (s Script) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText decodes a script name.
func (s *Script) UnmarshalText(b []byte) error {
	v, ok := ParseScript(string(b))
	if !ok {
		return fmt.Errorf("unknown label script %q", b)
	}
	*s = v
	return nil
}

var signNames = [3][12]string{
	{"Aries", "Taurus", "Gemini", "Cancer", "Leo", "Virgo",
		"Libra", "Scorpio", "Sagittarius", "Capricorn", "Aquarius", "Pisces"},
	{"Mesha", "Vrishabha", "Mithuna", "Karka", "Simha", "Kanya",
		"Tula", "Vrischika", "Dhanu", "Makara", "Kumbha", "Meena"},
	{"मेष", "वृषभ", "मिथुन", "कर्क", "सिंह", "कन्या",
		"तुला", "वृश्चिक", "धनु", "मकर", "कुम्भ", "मीन"},
}

var signGlyphs = [12]string{"♈", "♉", "♊", "♋", "♌", "♍", "♎", "♏", "♐", "♑", "♒", "♓"}

var nakshatraNames = [3][27]string{
	{"Ashwini", "Bharani", "Krittika", "Rohini", "Mrigashira", "Ardra",
		"Punarvasu", "Pushya", "Ashlesha", "Magha", "Purva Phalguni", "Uttara Phalguni",
		"Hasta", "Chitra", "Swati", "Vishakha", "Anuradha", "Jyeshtha",
		"Mula", "Purva Ashadha", "Uttara Ashadha", "Shravana", "Dhanishta", "Shatabhisha",
		"Purva Bhadrapada", "Uttara Bhadrapada", "Revati"},
	{"Aśvinī", "Bharaṇī", "Kṛttikā", "Rohiṇī", "Mṛgaśīrṣa", "Ārdrā",
		"Punarvasu", "Puṣya", "Āśleṣā", "Maghā", "Pūrva Phalgunī", "Uttara Phalgunī",
		"Hasta", "Citrā", "Svātī", "Viśākhā", "Anurādhā", "Jyeṣṭhā",
		"Mūla", "Pūrva Āṣāḍhā", "Uttara Āṣāḍhā", "Śravaṇa", "Dhaniṣṭhā", "Śatabhiṣā",
		"Pūrva Bhādrapadā", "Uttara Bhādrapadā", "Revatī"},
	{"अश्विनी", "भरणी", "कृत्तिका", "रोहिणी", "मृगशीर्ष", "आर्द्रा",
		"पुनर्वसु", "पुष्य", "आश्लेषा", "मघा", "पूर्व फाल्गुनी", "उत्तर फाल्गुनी",
		"हस्त", "चित्रा", "स्वाति", "विशाखा", "अनुराधा", "ज्येष्ठा",
		"मूल", "पूर्वाषाढ़ा", "उत्तराषाढ़ा", "श्रवण", "धनिष्ठा", "शतभिषा",
		"पूर्व भाद्रपद", "उत्तर भाद्रपद", "रेवती"},
}

// Vimshottari lords cycle Ketu, Venus, Sun, Moon, Mars, Rahu, Jupiter,
// Saturn, Mercury three times over the 27 nakshatras.
var nakshatraLords = [9]string{
	"Ketu", "Venus", "Sun", "Moon", "Mars", "Rahu", "Jupiter", "Saturn", "Mercury",
}

func scriptIndex(s Script) int {
	if s < English || s > Devanagari {
		return int(English)
	}
	return int(s)
}

// SignName returns the name of sign idx (taken mod 12) in script s.
func SignName(idx int, s Script) string {
	return signNames[scriptIndex(s)][mod(idx, 12)]
}

// SignGlyph returns the Unicode glyph for sign idx.
func SignGlyph(idx int) string {
	return signGlyphs[mod(idx, 12)]
}

// NakshatraName returns the name of nakshatra idx (taken mod 27) in script s.
func NakshatraName(idx int, s Script) string {
	return nakshatraNames[scriptIndex(s)][mod(idx, 27)]
}

// NakshatraLord returns the Vimshottari ruler of nakshatra idx.
func NakshatraLord(idx int) string {
	return nakshatraLords[mod(idx, 27)%9]
}

func mod(a, n int) int {
	m := a % n
	if m < 0 {
		m += n
	}
	return m
}
