package format

import (
	"math"
	"path/filepath"
	"strconv"
	"strings"
)

// Kind определяет категорию файла по расширению
type Kind string

const (
	KindImage Kind = "image"
	KindPDF   Kind = "pdf"
	KindVideo Kind = "video"
	KindAudio Kind = "audio"
	KindFile  Kind = "file"
)

var sizeUnits = []string{"Bytes", "KB", "MB", "GB"}

// FileSize переводит количество байт в человекочитаемый вид с базой 1024.
// Значение округляется до двух знаков, хвостовые нули отбрасываются.
func FileSize(bytes int64) string {
	if bytes == 0 {
		return "0 Bytes"
	}

	i := int(math.Floor(math.Log(float64(bytes)) / math.Log(1024)))
	if i >= len(sizeUnits) {
		i = len(sizeUnits) - 1
	}

	value := float64(bytes) / math.Pow(1024, float64(i))
	value = math.Round(value*100) / 100

	return strconv.FormatFloat(value, 'f', -1, 64) + " " + sizeUnits[i]
}

// KindForName определяет категорию файла исключительно по расширению имени.
// Содержимое файла не анализируется.
func KindForName(name string) Kind {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))

	switch ext {
	case "jpg", "jpeg", "png", "gif", "webp":
		return KindImage
	case "pdf":
		return KindPDF
	case "mp4", "avi", "mov", "wmv":
		return KindVideo
	case "mp3", "wav", "flac", "aac":
		return KindAudio
	default:
		return KindFile
	}
}

// Extension возвращает расширение имени файла без точки в верхнем регистре
func Extension(name string) string {
	return strings.ToUpper(strings.TrimPrefix(filepath.Ext(name), "."))
}
