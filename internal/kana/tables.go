package kana

// Built-in group names.
const (
	GroupHiragana        = "hiragana"
	GroupHiraganaDakuten = "hiragana-dakuten"
	GroupHiraganaYoon    = "hiragana-yoon"
	GroupKatakana        = "katakana"
	GroupKatakanaDakuten = "katakana-dakuten"
	GroupKatakanaYoon    = "katakana-yoon"
	GroupCustom          = "custom"
)

// DefaultGroups is the selection used when settings name none.
var DefaultGroups = []string{GroupHiragana}

// Readings list the Hepburn spelling first.
var hiraganaBasic = []Entry{
	{"あ", []string{"a"}}, {"い", []string{"i"}}, {"う", []string{"u"}}, {"え", []string{"e"}}, {"お", []string{"o"}},
	{"か", []string{"ka"}}, {"き", []string{"ki"}}, {"く", []string{"ku"}}, {"け", []string{"ke"}}, {"こ", []string{"ko"}},
	{"さ", []string{"sa"}}, {"し", []string{"shi", "si"}}, {"す", []string{"su"}}, {"せ", []string{"se"}}, {"そ", []string{"so"}},
	{"た", []string{"ta"}}, {"ち", []string{"chi", "ti"}}, {"つ", []string{"tsu", "tu"}}, {"て", []string{"te"}}, {"と", []string{"to"}},
	{"な", []string{"na"}}, {"に", []string{"ni"}}, {"ぬ", []string{"nu"}}, {"ね", []string{"ne"}}, {"の", []string{"no"}},
	{"は", []string{"ha"}}, {"ひ", []string{"hi"}}, {"ふ", []string{"fu", "hu"}}, {"へ", []string{"he"}}, {"ほ", []string{"ho"}},
	{"ま", []string{"ma"}}, {"み", []string{"mi"}}, {"む", []string{"mu"}}, {"め", []string{"me"}}, {"も", []string{"mo"}},
	{"や", []string{"ya"}}, {"ゆ", []string{"yu"}}, {"よ", []string{"yo"}},
	{"ら", []string{"ra"}}, {"り", []string{"ri"}}, {"る", []string{"ru"}}, {"れ", []string{"re"}}, {"ろ", []string{"ro"}},
	{"わ", []string{"wa"}}, {"を", []string{"wo", "o"}},
	{"ん", []string{"n", "nn"}},
}

var hiraganaDakuten = []Entry{
	{"が", []string{"ga"}}, {"ぎ", []string{"gi"}}, {"ぐ", []string{"gu"}}, {"げ", []string{"ge"}}, {"ご", []string{"go"}},
	{"ざ", []string{"za"}}, {"じ", []string{"ji", "zi"}}, {"ず", []string{"zu"}}, {"ぜ", []string{"ze"}}, {"ぞ", []string{"zo"}},
	{"だ", []string{"da"}}, {"ぢ", []string{"ji", "di"}}, {"づ", []string{"zu", "du"}}, {"で", []string{"de"}}, {"ど", []string{"do"}},
	{"ば", []string{"ba"}}, {"び", []string{"bi"}}, {"ぶ", []string{"bu"}}, {"べ", []string{"be"}}, {"ぼ", []string{"bo"}},
	{"ぱ", []string{"pa"}}, {"ぴ", []string{"pi"}}, {"ぷ", []string{"pu"}}, {"ぺ", []string{"pe"}}, {"ぽ", []string{"po"}},
}

var hiraganaYoon = []Entry{
	{"きゃ", []string{"kya"}}, {"きゅ", []string{"kyu"}}, {"きょ", []string{"kyo"}},
	{"しゃ", []string{"sha", "sya"}}, {"しゅ", []string{"shu", "syu"}}, {"しょ", []string{"sho", "syo"}},
	{"ちゃ", []string{"cha", "tya", "cya"}}, {"ちゅ", []string{"chu", "tyu", "cyu"}}, {"ちょ", []string{"cho", "tyo", "cyo"}},
	{"にゃ", []string{"nya"}}, {"にゅ", []string{"nyu"}}, {"にょ", []string{"nyo"}},
	{"ひゃ", []string{"hya"}}, {"ひゅ", []string{"hyu"}}, {"ひょ", []string{"hyo"}},
	{"みゃ", []string{"mya"}}, {"みゅ", []string{"myu"}}, {"みょ", []string{"myo"}},
	{"りゃ", []string{"rya"}}, {"りゅ", []string{"ryu"}}, {"りょ", []string{"ryo"}},
	{"ぎゃ", []string{"gya"}}, {"ぎゅ", []string{"gyu"}}, {"ぎょ", []string{"gyo"}},
	{"じゃ", []string{"ja", "zya", "jya"}}, {"じゅ", []string{"ju", "zyu", "jyu"}}, {"じょ", []string{"jo", "zyo", "jyo"}},
	{"びゃ", []string{"bya"}}, {"びゅ", []string{"byu"}}, {"びょ", []string{"byo"}},
	{"ぴゃ", []string{"pya"}}, {"ぴゅ", []string{"pyu"}}, {"ぴょ", []string{"pyo"}},
}

// katakanaOffset is the distance between a hiragana code point and its
// katakana counterpart (あ U+3042 → ア U+30A2).
const katakanaOffset = 0x60

// ToKatakana converts every hiragana rune in s to katakana.
func ToKatakana(s string) string {
	out := []rune(s)
	for i, r := range out {
		if r >= 'ぁ' && r <= 'ゖ' {
			out[i] = r + katakanaOffset
		}
	}
	return string(out)
}

func toKatakanaEntries(entries []Entry) []Entry {
	out := make([]Entry, len(entries))
	for i, e := range entries {
		out[i] = Entry{Kana: ToKatakana(e.Kana), Romaji: e.Romaji}
	}
	return out
}
