package model

import "testing"

func TestMCQIsCorrectIgnoresCaseAndWhitespace(t *testing.T) {
	q := &MCQ{CorrectOption: []string{"paris", " Lyon"}}

	cases := map[string]bool{
		" Paris ":   true,
		"PARIS":     true,
		"lyon":      true,
		"Marseille": false,
		"":          false,
	}
	for answer, want := range cases {
		if got := q.IsCorrect(answer); got != want {
			t.Fatalf("IsCorrect(%q) = %v, want %v", answer, got, want)
		}
	}
}

func TestQuizAttemptApplyScore(t *testing.T) {
	a := &QuizAttempt{TotalQuestions: 3}
	a.ApplyScore(2, 1)

	if a.QuestionsAttempted+a.QuestionsUnattempted != a.TotalQuestions {
		t.Fatalf("attempted %d + unattempted %d != total %d", a.QuestionsAttempted, a.QuestionsUnattempted, a.TotalQuestions)
	}
	if a.Score != 4 || a.CorrectAnswers != 1 || a.WrongAnswers() != 1 {
		t.Fatalf("unexpected score state: %+v wrong=%d", a, a.WrongAnswers())
	}
}
