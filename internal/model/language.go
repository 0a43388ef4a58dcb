package model

import (
	"fmt"

	"gorm.io/gorm"
)

// Language is a target language translations can exist in.
type Language struct {
	gorm.Model
	Code           string `gorm:"uniqueIndex;not null"`
	Name           string `gorm:"not null"`
	Nplurals       int    `gorm:"default:2"`
	PluralEquation string `gorm:"default:'(n != 1)'"`
	Rtl            bool   `gorm:"default:false"`
}

func (l *Language) String() string {
	return fmt.Sprintf("%s (%s)", l.Name, l.Code)
}

// PluralForms renders the gettext Plural-Forms header value.
func (l *Language) PluralForms() string {
	return fmt.Sprintf("nplurals=%d; plural=%s;", l.Nplurals, l.PluralEquation)
}

type languageSeed struct {
	code     string
	name     string
	nplurals int
	equation string
	rtl      bool
}

var languageSeeds = []languageSeed{
	{"ar", "Arabic", 6, "n==0 ? 0 : n==1 ? 1 : n==2 ? 2 : n%100>=3 && n%100<=10 ? 3 : n%100>=11 ? 4 : 5", true},
	{"ca", "Catalan", 2, "(n != 1)", false},
	{"cs", "Czech", 3, "(n==1) ? 0 : (n>=2 && n<=4) ? 1 : 2", false},
	{"da", "Danish", 2, "(n != 1)", false},
	{"de", "German", 2, "(n != 1)", false},
	{"el", "Greek", 2, "(n != 1)", false},
	{"en", "English", 2, "(n != 1)", false},
	{"es", "Spanish", 2, "(n != 1)", false},
	{"fi", "Finnish", 2, "(n != 1)", false},
	{"fr", "French", 2, "(n > 1)", false},
	{"he", "Hebrew", 2, "(n != 1)", true},
	{"hu", "Hungarian", 2, "(n != 1)", false},
	{"it", "Italian", 2, "(n != 1)", false},
	{"ja", "Japanese", 1, "0", false},
	{"ko", "Korean", 1, "0", false},
	{"nl", "Dutch", 2, "(n != 1)", false},
	{"pl", "Polish", 3, "(n==1 ? 0 : n%10>=2 && n%10<=4 && (n%100<10 || n%100>=20) ? 1 : 2)", false},
	{"pt", "Portuguese", 2, "(n != 1)", false},
	{"pt_BR", "Portuguese (Brazil)", 2, "(n > 1)", false},
	{"ru", "Russian", 3, "(n%10==1 && n%100!=11 ? 0 : n%10>=2 && n%10<=4 && (n%100<10 || n%100>=20) ? 1 : 2)", false},
	{"sk", "Slovak", 3, "(n==1) ? 0 : (n>=2 && n<=4) ? 1 : 2", false},
	{"sv", "Swedish", 2, "(n != 1)", false},
	{"tr", "Turkish", 1, "0", false},
	{"uk", "Ukrainian", 3, "(n%10==1 && n%100!=11 ? 0 : n%10>=2 && n%10<=4 && (n%100<10 || n%100>=20) ? 1 : 2)", false},
	{"zh_CN", "Chinese (Simplified)", 1, "0", false},
}

// SeedLanguages inserts the built-in language table. Existing codes are kept as is
// so locally edited plural data survives reseeding.
func SeedLanguages(db *gorm.DB) error {
	for _, seed := range languageSeeds {
		lang := Language{
			Code:           seed.code,
			Name:           seed.name,
			Nplurals:       seed.nplurals,
			PluralEquation: seed.equation,
			Rtl:            seed.rtl,
		}
		err := db.Where("code = ?", seed.code).FirstOrCreate(&lang).Error
		if err != nil {
			return err
		}
	}

	return nil
}
