package dateformat

import (
	"time"

	"golang.org/x/text/language"
)

type layout struct {
	date     func(t time.Time) string
	dateTime func(t time.Time) string
}

func fixed(date, dateTime string) layout {
	return layout{
		date:     func(t time.Time) string { return t.Format(date) },
		dateTime: func(t time.Time) string { return t.Format(dateTime) },
	}
}

// Korean uses a 12-hour clock with a leading 오전/오후 marker.
var korean = layout{
	date: func(t time.Time) string { return t.Format("2006. 01. 02.") },
	dateTime: func(t time.Time) string {
		marker := "오전"
		if t.Hour() >= 12 {
			marker = "오후"
		}
		return t.Format("2006. 01. 02.") + " " + marker + " " + t.Format("03:04")
	},
}

// The first entry is the fallback for unmatched locales.
var supported = []struct {
	tag    language.Tag
	layout layout
}{
	{language.MustParse("ko-KR"), korean},
	{language.AmericanEnglish, fixed("01/02/2006", "01/02/2006, 03:04 PM")},
	{language.BritishEnglish, fixed("02/01/2006", "02/01/2006, 15:04")},
	{language.MustParse("ja-JP"), fixed("2006/01/02", "2006/01/02 15:04")},
	{language.MustParse("zh-CN"), fixed("2006/01/02", "2006/01/02 15:04")},
	{language.MustParse("de-DE"), fixed("02.01.2006", "02.01.2006, 15:04")},
}

var matcher = func() language.Matcher {
	tags := make([]language.Tag, len(supported))
	for i, s := range supported {
		tags[i] = s.tag
	}
	return language.NewMatcher(tags)
}()

func match(tags ...language.Tag) int {
	if len(tags) == 0 {
		return 0
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return 0
	}
	return idx
}
