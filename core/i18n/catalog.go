package i18n

// catalogs maps locale code → UI string key → text. Keys mirror the screens
// they belong to.
var catalogs = map[string]map[string]string{
	LangEnglish: {
		"app.name":    "MyHafiz",
		"app.tagline": "Track your Quran memorization journey",

		"nav.home":          "Home",
		"nav.dashboard":     "Dashboard",
		"nav.quran":         "Quran",
		"nav.progress":      "Progress",
		"nav.notifications": "Notifications",
		"nav.faq":           "FAQ",
		"nav.support":       "Support",
		"nav.login":         "Log In",
		"nav.register":      "Register",
		"nav.logout":        "Log Out",

		"auth.email":            "Email",
		"auth.password":         "Password",
		"auth.confirm_password": "Confirm Password",
		"auth.name":             "Full Name",
		"auth.role":             "I am a",
		"auth.role.student":     "Student",
		"auth.role.teacher":     "Teacher",
		"auth.role.parent":      "Parent",
		"auth.forgot_password":  "Forgot password?",

		"dashboard.welcome":          "Assalamualaikum",
		"dashboard.my_students":      "My Students",
		"dashboard.my_children":      "My Children",
		"dashboard.my_teacher":       "My Teacher",
		"dashboard.overall_progress": "Overall Progress",

		"connections.title":           "Connections",
		"connections.pending":         "Pending Requests",
		"connections.accepted":        "Connected",
		"connections.search_student":  "Search student by email",
		"connections.send_request":    "Send Request",
		"connections.accept":          "Accept",
		"connections.reject":          "Reject",
		"connections.request_sent":    "Connection request sent",
		"connections.no_students":     "No students found",
		"connections.no_connections":  "No connections yet",
		"connections.search_failed":   "Unable to search for students. Please try again later.",

		"quran.surah":        "Surah",
		"quran.ayah":         "Ayah",
		"quran.reciter":      "Reciter",
		"quran.translation":  "Translation",
		"quran.memorized":    "Memorized",
		"quran.mark":         "Mark as memorized",
		"quran.unmark":       "Unmark",
		"quran.load_failed":  "Failed to load verses",

		"progress.title":          "Memorization Progress",
		"progress.total_ayahs":    "Total Ayahs Memorized",
		"progress.overall":        "Overall Progress",
		"progress.per_surah":      "Progress by Surah",
		"progress.last_updated":   "Last updated",
		"progress.no_data":        "No progress recorded yet",

		"language.label":  "Language",
		"language.en":     "English",
		"language.ms":     "Bahasa Melayu",
	},
	LangMalay: {
		"app.name":    "MyHafiz",
		"app.tagline": "Pantau perjalanan hafazan al-Quran anda",

		"nav.home":          "Laman Utama",
		"nav.dashboard":     "Papan Pemuka",
		"nav.quran":         "Al-Quran",
		"nav.progress":      "Kemajuan",
		"nav.notifications": "Notifikasi",
		"nav.faq":           "Soalan Lazim",
		"nav.support":       "Sokongan",
		"nav.login":         "Log Masuk",
		"nav.register":      "Daftar",
		"nav.logout":        "Log Keluar",

		"auth.email":            "E-mel",
		"auth.password":         "Kata Laluan",
		"auth.confirm_password": "Sahkan Kata Laluan",
		"auth.name":             "Nama Penuh",
		"auth.role":             "Saya seorang",
		"auth.role.student":     "Pelajar",
		"auth.role.teacher":     "Guru",
		"auth.role.parent":      "Ibu Bapa",
		"auth.forgot_password":  "Lupa kata laluan?",

		"dashboard.welcome":          "Assalamualaikum",
		"dashboard.my_students":      "Pelajar Saya",
		"dashboard.my_children":      "Anak-anak Saya",
		"dashboard.my_teacher":       "Guru Saya",
		"dashboard.overall_progress": "Kemajuan Keseluruhan",

		"connections.title":           "Hubungan",
		"connections.pending":         "Permintaan Menunggu",
		"connections.accepted":        "Terhubung",
		"connections.search_student":  "Cari pelajar melalui e-mel",
		"connections.send_request":    "Hantar Permintaan",
		"connections.accept":          "Terima",
		"connections.reject":          "Tolak",
		"connections.request_sent":    "Permintaan hubungan dihantar",
		"connections.no_students":     "Tiada pelajar dijumpai",
		"connections.no_connections":  "Belum ada hubungan",
		"connections.search_failed":   "Tidak dapat mencari pelajar. Sila cuba sebentar lagi.",

		"quran.surah":        "Surah",
		"quran.ayah":         "Ayat",
		"quran.reciter":      "Qari",
		"quran.translation":  "Terjemahan",
		"quran.memorized":    "Dihafaz",
		"quran.mark":         "Tanda sebagai dihafaz",
		"quran.unmark":       "Buang tanda",
		"quran.load_failed":  "Gagal memuatkan ayat",

		"progress.title":          "Kemajuan Hafazan",
		"progress.total_ayahs":    "Jumlah Ayat Dihafaz",
		"progress.overall":        "Kemajuan Keseluruhan",
		"progress.per_surah":      "Kemajuan Mengikut Surah",
		"progress.last_updated":   "Kemas kini terakhir",
		"progress.no_data":        "Tiada kemajuan direkodkan lagi",

		"language.label":  "Bahasa",
		"language.en":     "English",
		"language.ms":     "Bahasa Melayu",
	},
}
