package models

// All lists every table for AutoMigrate, in dependency order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&XPTransaction{},
		&Course{},
		&Module{},
		&Lesson{},
		&UserCourse{},
		&Certificate{},
		&TestQuestion{},
		&TestOption{},
		&UserTestAnswer{},
		&LessonProgress{},
		&LessonComment{},
		&CommentLike{},
		&LessonReaction{},
	}
}
