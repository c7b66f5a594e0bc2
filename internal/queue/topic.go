package queue

import (
	"pressrun/internal/topics"
)

// Request reconstructs the article request the item was enqueued with. The
// outline cell is decoded best effort: a row that passed validation at
// enqueue time can only lose its outline if the database was edited by hand,
// so a corrupt cell degrades to no outline instead of failing the stage.
func (i *Item) Request() topics.Topic {
	outline, err := topics.ParseOutline(i.OutlineJSON)
	if err != nil {
		outline = nil
	}
	return topics.Topic{
		Topic:              i.Topic,
		PrimaryKeywords:    i.PrimaryKeywords,
		AdditionalKeywords: i.AdditionalKeywords,
		TargetAudience:     i.TargetAudience,
		ToneStyle:          i.ToneStyle,
		WordCount:          i.WordCount,
		Outline:            outline,
		Categories:         topics.SplitList(i.Categories),
		Tags:               topics.SplitList(i.Tags),
		VideoRequired:      i.VideoRequired,
		ScheduleAt:         i.ScheduleAt,
	}
}
