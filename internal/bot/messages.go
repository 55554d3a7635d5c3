package bot

// User-facing texts. The bot speaks Hebrew.
const (
	msgStartupNotice = "✅ הבוט הופעל מחדש ומוכן לשימוש."
	msgWelcome       = "👋 ברוך הבא! בחר פעולה מהתפריט:"
	msgHelp          = "<b>📌 רשימת פקודות:</b>\n\n" +
		"/start – התחל שימוש בבוט\n" +
		"/sync – סנכרון הודעות חדשות מכל הערוצים\n" +
		"/latest – סיכום חכם של העדכונים האחרונים\n" +
		"/channels – הצג את רשימת הערוצים\n" +
		"/add – הוסף ערוץ חדשות לרשימה\n" +
		"/remove – הסר ערוץ מרשימת המעקב\n" +
		"/debug – הצג את מילות המפתח האחרונות שזוהו\n" +
		"/stats – סטטיסטיקה של ההודעות בערוצים\n" +
		"/help – הסבר על הפקודות"

	msgNoChannels        = "📭 אין ערוצים ברשימה כרגע."
	msgChannelsHeader    = "📡 ערוצים פעילים:\n"
	msgAskAddChannel     = "📥 אנא שלח את שם הערוץ שברצונך להוסיף (כולל @)"
	msgAskRemoveChannel  = "🗑️ אנא שלח את שם הערוץ שברצונך להסיר (כולל @)"
	msgBadChannelName    = "❌ שם הערוץ צריך להתחיל ב־@. נסה שוב."
	msgChannelExists     = "⚠️ הערוץ כבר קיים."
	msgChannelNotFound   = "⚠️ הערוץ לא נמצא ברשימה."
	msgChannelAdded      = "✅ הערוץ %s נוסף לרשימה."
	msgChannelRemoved    = "🗑️ הערוץ %s הוסר מהרשימה."
	msgNoKeywords        = "אין מילות מפתח זמינות כרגע."
	msgNoStats           = "📭 אין נתונים זמינים."
	msgStatsHeader       = "📊 מספר הודעות שמורות לפי ערוץ:\n"
	msgSyncStarting      = "🔄 מתחיל סנכרון ערוצים..."
	msgSyncNoChannels    = "📭 אין ערוצים פעילים לסנכרון. השתמש ב־/add כדי להוסיף."
	msgSyncDoneHeader    = "✅ עדכון הסתיים:\n\n"
	msgSyncFailed        = "❌ שגיאה בסנכרון."
	msgNothingToDigest   = "לא נמצאו הודעות חדשות לסיכום."
	msgDigestHeader      = "🗞️ סיכום עדכונים אחרונים:\n\n"
	msgDigestFailed      = "❌ שגיאה בעת שליפת הסיכום."
	msgChecking          = "בודק..."
	msgNoResults         = "לא נמצאו תוצאות רלוונטיות."
	msgQuestionFailed    = "שגיאה בטיפול בשאלה."
	msgUnexpectedFailure = "❌ שגיאה לא צפויה."
)
