package bot

import (
	"fmt"
	"strconv"
	"strings"
)

const answerPrefix = "a"

// answerCallback identifies one option of one question of a session
type answerCallback struct {
	SessionID string
	Question  int
	Option    int
}

func (c answerCallback) String() string {
	return fmt.Sprintf("%s:%s:%d:%d", answerPrefix, c.SessionID, c.Question, c.Option)
}

func parseAnswerCallback(data string) (answerCallback, error) {
	parts := strings.Split(data, ":")
	if len(parts) != 4 || parts[0] != answerPrefix || parts[1] == "" {
		return answerCallback{}, fmt.Errorf("not an answer callback: %q", data)
	}
	q, err := strconv.Atoi(parts[2])
	if err != nil || q < 0 {
		return answerCallback{}, fmt.Errorf("invalid question index in %q", data)
	}
	opt, err := strconv.Atoi(parts[3])
	if err != nil || opt < 0 {
		return answerCallback{}, fmt.Errorf("invalid option index in %q", data)
	}
	return answerCallback{SessionID: parts[1], Question: q, Option: opt}, nil
}
