package queue

import (
	"database/sql"
	"errors"
	"time"
)

const itemColumns = "id, topic, primary_keywords, additional_keywords, target_audience, tone_style, word_count, outline_json, categories, tags, video_required, schedule_at, status, fingerprint, content_json, media_json, composed_body, post_id, featured_media_id, error_message, progress_stage, progress_percent, progress_message, created_at, updated_at"

func scanItem(scanner interface{ Scan(dest ...any) error }) (*Item, error) {
	var (
		id                 int64
		topic              string
		primaryKeywords    sql.NullString
		additionalKeywords sql.NullString
		targetAudience     sql.NullString
		toneStyle          sql.NullString
		wordCount          sql.NullInt64
		outlineJSON        sql.NullString
		categories         sql.NullString
		tags               sql.NullString
		videoRequired      sql.NullInt64
		scheduleRaw        sql.NullString
		statusStr          string
		fingerprint        sql.NullString
		contentJSON        sql.NullString
		mediaJSON          sql.NullString
		composedBody       sql.NullString
		postID             sql.NullString
		featuredMediaID    sql.NullString
		errorMessage       sql.NullString
		progressStage      sql.NullString
		progressPercent    sql.NullFloat64
		progressMessage    sql.NullString
		createdRaw         sql.NullString
		updatedRaw         sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&topic,
		&primaryKeywords,
		&additionalKeywords,
		&targetAudience,
		&toneStyle,
		&wordCount,
		&outlineJSON,
		&categories,
		&tags,
		&videoRequired,
		&scheduleRaw,
		&statusStr,
		&fingerprint,
		&contentJSON,
		&mediaJSON,
		&composedBody,
		&postID,
		&featuredMediaID,
		&errorMessage,
		&progressStage,
		&progressPercent,
		&progressMessage,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}

	item := &Item{
		ID:                 id,
		Topic:              topic,
		PrimaryKeywords:    primaryKeywords.String,
		AdditionalKeywords: additionalKeywords.String,
		TargetAudience:     targetAudience.String,
		ToneStyle:          toneStyle.String,
		WordCount:          int(wordCount.Int64),
		OutlineJSON:        outlineJSON.String,
		Categories:         categories.String,
		Tags:               tags.String,
		Status:             Status(statusStr),
		Fingerprint:        fingerprint.String,
		ContentJSON:        contentJSON.String,
		MediaJSON:          mediaJSON.String,
		ComposedBody:       composedBody.String,
		PostID:             postID.String,
		FeaturedMediaID:    featuredMediaID.String,
		ErrorMessage:       errorMessage.String,
		ProgressStage:      progressStage.String,
		ProgressPercent:    progressPercent.Float64,
		ProgressMessage:    progressMessage.String,
	}
	if videoRequired.Valid {
		item.VideoRequired = videoRequired.Int64 != 0
	}
	if scheduleRaw.Valid {
		if scheduled, err := parseTimeString(scheduleRaw.String); err == nil {
			item.ScheduleAt = &scheduled
		}
	}
	if created, err := parseTimeString(createdRaw.String); err == nil {
		item.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw.String); err == nil {
		item.UpdatedAt = updated
	}
	return item, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullableTime(value *time.Time) any {
	if value == nil {
		return nil
	}
	v := value.UTC().Format(time.RFC3339Nano)
	return v
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}

func nowTimestamp() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}

func makePlaceholders(count int) string {
	if count <= 0 {
		return ""
	}
	placeholders := make([]byte, 0, count*2)
	for i := 0; i < count; i++ {
		if i > 0 {
			placeholders = append(placeholders, ',')
		}
		placeholders = append(placeholders, '?')
	}
	return string(placeholders)
}
