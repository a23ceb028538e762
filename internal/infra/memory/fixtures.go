package memory

import "tekno-rank-service/internal/query"

// SeedDemo loads a small fixture set so the server can run without
// Typesense or Postgres; swap in real backends for production.
func SeedDemo(b *Backend) {
	b.Seed("questions", []query.Hit{
		{"id": "q-001", "question_text": "5 + 7 = ?", "difficulty": "easy", "subject_code": "matematik", "subject_name": "Matematik", "topic_id": "t-add", "main_topic": "Toplama", "grade": 5, "times_answered": 120, "success_rate": 91.0},
		{"id": "q-002", "question_text": "12 x 8 = ?", "difficulty": "medium", "subject_code": "matematik", "subject_name": "Matematik", "topic_id": "t-mul", "main_topic": "Carpma", "grade": 5, "times_answered": 64, "success_rate": 72.5},
		{"id": "q-003", "question_text": "En buyuk asal carpan?", "difficulty": "hard", "subject_code": "matematik", "subject_name": "Matematik", "topic_id": "t-mul", "main_topic": "Carpma", "grade": 5, "times_answered": 18, "success_rate": 41.0},
		{"id": "q-004", "question_text": "Diofant denklemi coz", "difficulty": "legendary", "subject_code": "matematik", "subject_name": "Matematik", "topic_id": "t-mul", "main_topic": "Carpma", "grade": 5, "times_answered": 3, "success_rate": 12.0},
	})
	b.Seed("leaderboard", []query.Hit{
		{"student_id": "s-1", "full_name": "Ayse", "total_points": 980.0, "matematik_points": 400.0, "total_questions": 300, "total_correct": 250, "total_wrong": 50, "max_streak": 14, "current_streak": 3, "grade": 5, "city_id": "c-34", "city_name": "Istanbul", "district_id": "d-1", "school_id": "sch-1", "school_name": "Ataturk Ortaokulu"},
		{"student_id": "s-2", "full_name": "Mehmet", "total_points": 940.0, "matematik_points": 520.0, "total_questions": 280, "total_correct": 220, "total_wrong": 60, "max_streak": 9, "current_streak": 1, "grade": 5, "city_id": "c-34", "city_name": "Istanbul", "district_id": "d-1", "school_id": "sch-1", "school_name": "Ataturk Ortaokulu"},
		{"student_id": "s-3", "full_name": "Zeynep", "total_points": 910.0, "matematik_points": 310.0, "total_questions": 260, "total_correct": 200, "total_wrong": 60, "max_streak": 11, "current_streak": 5, "grade": 6, "city_id": "c-06", "city_name": "Ankara", "district_id": "d-2", "school_id": "sch-2", "school_name": "Cumhuriyet Ortaokulu"},
	})
}
