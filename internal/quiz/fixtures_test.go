package quiz

import (
	"fmt"
	"time"

	"github.com/example/langseed/internal/knowledge"
	"github.com/example/langseed/pkg/models"
)

var allFocus = models.FocusWeights{Character: 3, Pinyin: 3, Meaning: 3, Audio: 3}

func concept(id, word, pinyin, pos, meaning string, chapter int) models.Concept {
	c := models.Concept{
		ID:           id,
		Word:         word,
		Pinyin:       pinyin,
		PartOfSpeech: pos,
		Meaning:      meaning,
		Chapter:      chapter,
	}
	knowledge.Seed(&c, allFocus)
	return c
}

func vocabulary() []models.Concept {
	return []models.Concept{
		concept("1", "你", "nǐ", "pronoun", "you", 1),
		concept("2", "好", "hǎo", "adjective", "good", 1),
		concept("3", "我", "wǒ", "pronoun", "I", 1),
		concept("4", "他", "tā", "pronoun", "he", 2),
		concept("5", "她", "tā", "pronoun", "she", 2),
		concept("6", "谢谢", "xièxie", "verb", "to thank", 1),
		concept("7", "不客气", "bú kèqi", "other", "you're welcome", 1),
		concept("8", "再见", "zàijiàn", "verb", "goodbye", 1),
		concept("9", "老师", "lǎoshī", "noun", "teacher", 3),
		concept("10", "学生", "xuésheng", "noun", "student", 3),
		concept("11", "中国", "Zhōngguó", "noun", "China", 4),
		concept("12", "吃", "chī", "verb", "to eat", 8),
		concept("13", "喝", "hē", "verb", "to drink", 8),
		concept("14", "朋友", "péngyou", "noun", "friend", 9),
		concept("15", "医生", "yīshēng", "noun", "doctor", 9),
	}
}

// largePool builds n distinct synthetic concepts
func largePool(n int) []models.Concept {
	out := make([]models.Concept, n)
	for i := range out {
		out[i] = concept(
			fmt.Sprintf("c%d", i),
			fmt.Sprintf("字%d", i),
			fmt.Sprintf("zi%d", i%5+1),
			[]string{"noun", "verb", "adjective"}[i%3],
			fmt.Sprintf("meaning %d", i),
			i%15+1,
		)
	}
	return out
}

var fixedNow = time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC)
