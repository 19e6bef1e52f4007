package textproc

import "insight_server/core/domain"

// Lexicon tables are immutable configuration, loaded once and shared
// read-only by every engine. Hand-curated for Indonesian social media with
// the English loanwords that show up in that domain.

// SentimentEmojiMap expands emoji into sentiment-bearing keywords.
var SentimentEmojiMap = map[string]string{
	"😊": "senang", "😢": "sedih", "😡": "marah", "😍": "suka",
	"👍": "bagus", "👎": "jelek", "❤️": "suka", "💔": "kecewa",
	"😂": "lucu", "😭": "menangis", "🔥": "bagus", "💯": "bagus",
	"😀": "senang", "😃": "senang", "😄": "senang", "😁": "senang",
	"🙏": "terima_kasih", "👌": "oke", "✅": "benar", "❌": "salah",
	"💸": "mahal", "💰": "murah", "📶": "sinyal", "📡": "internet",
	"🚫": "tidak", "⚡": "cepat", "🐌": "lambat",
}

// EmotionEmojiMap expands emoji into emotion keywords. Broader than the
// sentiment map because the emotion lexicons key off finer categories.
var EmotionEmojiMap = map[string]string{
	"😀": "senang gembira", "😃": "senang riang", "😄": "senang ceria",
	"😁": "senang senyum", "😆": "tertawa senang", "😅": "senang lega",
	"🤣": "tertawa bahagia", "😂": "lucu senang", "🙂": "senang",
	"😊": "senang puas", "😇": "senang baik", "🥰": "suka cinta",
	"😍": "suka cinta", "🤩": "kagum senang", "😘": "suka sayang",
	"❤️": "suka cinta love", "💕": "suka cinta", "💖": "suka cinta",
	"👍": "bagus setuju oke", "👏": "bagus hebat", "🙌": "bagus senang",
	"👌": "oke bagus", "🔥": "mantap bagus keren", "💯": "bagus sempurna maksimal",
	"⭐": "bagus bintang", "✨": "bagus cemerlang", "⚡": "cepat mantap",
	"🎉": "senang perayaan", "🎊": "senang perayaan", "🏆": "juara sukses menang",
	"🙏": "terima kasih mohon",
	"😠": "marah kesal", "😡": "marah geram", "🤬": "marah bangsat",
	"😤": "kesal dongkol", "💢": "marah kesal", "👎": "jelek buruk tidak setuju",
	"🛑": "stop berhenti", "⛔": "tidak boleh", "🚫": "tidak boleh dilarang",
	"❌": "salah tidak boleh", "⚠️": "bahaya hati hati",
	"😢": "sedih menangis", "😭": "sedih menangis kecewa", "😥": "sedih kecewa",
	"😞": "sedih kecewa", "😔": "sedih murung", "😟": "sedih khawatir",
	"😩": "sedih frustasi", "🥺": "sedih kasihan mohon", "😪": "sedih lelah",
	"💔": "sedih kecewa patah hati", "🥱": "bosan",
	"😨": "takut cemas", "😱": "takut shock", "😰": "takut khawatir",
	"😧": "takut cemas", "😬": "takut canggung", "🙈": "takut malu",
	"👻": "takut hantu", "💀": "takut mati",
	"😮": "kaget takut", "😯": "kaget heran", "😲": "kaget shock",
	"😳": "kaget malu", "🤯": "kaget shock gila",
	"🤢": "jijik mual", "🤮": "jijik muntah", "🤧": "sakit",
}

// Stopwords is the Indonesian stopword set plus domain filler words and a
// profanity blocklist that must never reach wordclouds or model input.
var Stopwords = map[string]struct{}{}

var stopwordList = []string{
	"yang", "dan", "di", "dengan", "untuk", "pada", "adalah",
	"ini", "itu", "dari", "ke", "tidak", "atau", "juga", "akan",
	"telah", "dapat", "ada", "dalam", "saya", "kamu", "dia",
	"mereka", "kami", "sudah", "belum", "masih", "sangat",
	"sekali", "hanya", "bisa", "mau", "ingin", "perlu", "harus",
	"kak", "ka", "gan", "sis", "bro", "min", "admin", "cs", "halo",
	"hai", "selamat", "pagi", "siang", "sore", "malam", "mohon",
	"tolong", "cek", "thanks", "thx", "makasih", "terimakasih", "makasi",
	"terima", "kasih", "ya", "yah", "iya", "ok", "oke", "dong",
	"deh", "nih", "sih", "loh", "wkwk", "hehe", "hihi", "nya", "kok",
	"kakak", "jadi", "atas",
	// profanity blocklist
	"kontol", "anjing", "bangsat", "bajingan", "memek", "pepek", "kampret",
	"goblok", "tolol", "tai", "brengsek", "jancuk", "keparat", "sialan",
	"perek", "sundal", "lonte", "pelacur", "babi", "ajg", "anjng", "anj",
}

func init() {
	for _, w := range stopwordList {
		Stopwords[w] = struct{}{}
	}
}

// PositiveTriggers and NegativeTriggers drive the sentiment lexicon fallback.
var PositiveTriggers = []string{
	"bagus", "baik", "senang", "puas", "cepat", "lancar", "mantap",
	"oke", "terima kasih", "thanks", "good", "fast", "smooth", "great",
	"sukses", "mantul", "keren", "top", "recommended", "hebat", "memuaskan",
}

var NegativeTriggers = []string{
	"lambat", "lemot", "jelek", "buruk", "kecewa", "marah", "kesal",
	"gangguan", "error", "rusak", "masalah", "complain", "komplain",
	"bad", "slow", "worst", "terrible", "parah", "payah", "down",
	"los", "mati", "putus", "lag", "kaga", "gak jalan", "ga bisa",
	"kendala", "keluhan", "mengecewakan", "zonk", "lelet", "anjlok",
}

// EmotionLexicons maps each emotion category to its trigger phrases.
// Iteration must follow domain.EmotionOrder so score ties resolve to the
// earliest category.
var EmotionLexicons = map[string][]string{
	domain.EmotionJoy: {
		"senang", "gembira", "bahagia", "suka", "riang", "ceria",
		"girang", "sukacita", "bergembira",
		"puas", "memuaskan", "satisfied", "lega", "tenang", "nyaman", "aman", "damai",
		"mantap", "mantul", "mantab", "juara", "super",
		"bagus", "keren", "hebat", "top", "terbaik", "maksimal", "optimal",
		"excellent", "good", "great", "awesome", "fantastic", "wonderful",
		"amazing", "outstanding", "brilliant",
		"sukses", "berhasil", "success", "menang", "lancar", "mulus", "sempurna", "perfect",
		"cepat", "kilat", "instant", "responsif", "fast", "quick",
		"efisien", "smooth",
		"terima kasih", "terimakasih", "makasih", "thanks", "thank you",
		"grateful", "syukur", "alhamdulillah",
		"recommended", "recommend", "terpercaya", "trusted", "reliable",
		"worth it", "cocok",
		"unggul", "superior", "profesional", "berkualitas", "kualitas", "quality", "premium",
		"seneng", "happy", "cheerful", "joyful", "delighted",
		"seru", "asik", "asyik", "menyenangkan", "fun",
		"love", "suka banget", "cinta", "favorit", "favorite",
		"kagum", "mengagumkan", "impressive", "memukau", "menakjubkan",
		"stabil", "stable", "konsisten", "consistent", "solid", "handal",
	},
	domain.EmotionAnger: {
		"marah", "angry", "anger", "rage", "furious", "mad",
		"murka", "geram", "mengamuk", "berang", "gusar",
		"kesal", "jengkel", "dongkol", "sebal", "sebel", "annoyed",
		"annoying", "menyebalkan", "menjengkelkan", "irritated", "upset",
		"gondok", "geregetan", "bete",
		"benci", "hate", "muak", "antipati",
		"tidak suka", "ga suka", "gak suka", "nggak suka",
		"bangsat", "sialan", "kampret", "brengsek", "keparat", "bajingan",
		"anjing", "anjir", "anjrit",
		"goblok", "tolol", "bodoh", "idiot", "stupid", "bego",
		"tidak profesional", "ga profesional", "unprofessional", "amatir",
		"sembarangan", "ngaco", "kacau",
		"payah", "parah", "jelek banget", "buruk sekali",
		"worst", "terrible", "horrible", "awful",
		"mengecewakan", "disappointing",
		"protes", "complain", "komplain", "laporkan", "somasi", "tuntut",
		"boikot", "blacklist", "batalkan", "cancel", "kapok",
		"curang", "tipu", "bohong", "penipuan", "scam", "fraud",
		"menipu", "penipu", "pembohong", "hoax",
	},
	domain.EmotionSadness: {
		"sedih", "sad", "sadness", "sorrow", "grief", "unhappy",
		"duka", "pilu", "nelangsa", "sendu", "murung", "gloomy",
		"kecewa", "disappointed", "zonk", "gagal", "failure", "failed",
		"hancur", "broken", "terpuruk", "jatuh",
		"depresi", "depressed", "hopeless", "putus asa",
		"frustasi", "frustrated", "stress", "tertekan",
		"galau", "bingung", "confused", "lost", "ragu",
		"menyesal", "regret", "rugi", "sia sia", "percuma",
		"kasihan", "menyedihkan",
		"capek", "lelah", "tired", "exhausted", "burnout",
		"jenuh", "bosan", "bored", "boring", "membosankan",
		"penat", "letih", "lemas", "lemah",
		"menyerah", "give up", "pasrah",
		"rindu", "miss", "hilang", "kehilangan", "ditinggal",
		"menderita", "suffering", "sakit", "pain", "painful",
		"tersiksa", "sengsara", "miserable",
		"tragis", "tragic", "tragedi", "malang", "sial",
	},
	domain.EmotionFear: {
		"takut", "fear", "scared", "afraid", "frightened", "terrified",
		"ngeri", "seram", "menakutkan", "scary", "creepy",
		"khawatir", "worried", "worry", "concern", "concerned",
		"cemas", "anxious", "anxiety", "gelisah", "resah", "risau",
		"was was", "waswas",
		"panik", "panic", "kalut",
		"deg degan", "tegang", "tense", "nervous",
		"grogi", "gugup", "gemetar",
		"bahaya", "dangerous", "danger", "berbahaya", "unsafe",
		"berisiko", "risky", "rawan", "ancaman", "threat", "mengancam",
		"tidak aman", "ga aman", "gak aman", "insecure", "rentan",
		"horor", "horror", "menyeramkan", "mengerikan",
		"trauma", "fobia", "phobia", "nightmare", "mimpi buruk",
		"ketakutan", "paranoid",
		"jangan sampai", "hati hati", "waspada", "awas", "careful",
	},
	domain.EmotionSurprise: {
		"kaget", "terkejut", "surprised", "surprise", "shocking",
		"shocked", "shock", "mengejutkan", "mencengangkan",
		"heran", "terheran", "wonder", "curious",
		"penasaran", "aneh", "strange", "weird", "odd",
		"takjub", "amazed",
		"tidak percaya", "ga percaya", "gak percaya", "unbelievable",
		"incredible", "beneran", "really",
		"masa sih", "apa iya", "benarkah",
		"unexpected", "tiba tiba", "mendadak",
		"tidak terduga", "diluar dugaan", "ternyata", "rupanya",
		"wow", "woah", "waw", "wih", "wah", "weh",
		"gila", "gile", "gokil",
		"astaga", "masyaallah", "subhanallah", "ya ampun",
		"kok bisa", "gimana bisa", "what the",
		"omg", "oh my god", "demi apa", "ampun dah",
		"plot twist", "kebalikan", "beda banget",
	},
	domain.EmotionDisgust: {
		"jijik", "jijay", "disgusting", "disgust", "gross",
		"eww", "yuck", "ugh",
		"mual", "enek", "eneg", "muntah", "nauseous",
		"bikin mual", "bikin muntah",
		"jorok", "kotor", "dirty", "filthy", "najis",
		"busuk", "bau", "smelly", "basi", "rotten",
		"menjijikkan", "hina", "despicable",
		"memalukan", "shameful", "embarrassing",
		"sampah", "trash", "garbage", "rubbish",
		"disturbing", "mengganggu",
		"keji", "kejam", "cruel", "sadis", "biadab", "brutal", "kasar",
		"ogah", "males", "no way",
		"parah banget", "ancur", "rusak parah",
		"bangkai", "sampah masyarakat",
	},
}
