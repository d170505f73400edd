package content

import (
	"context"
	"fmt"

	"github.com/irsalhamdi/eduverse/database"
	"github.com/jmoiron/sqlx"
)

// source maps a kind to the queries projecting its table onto Item.
type source struct {
	list  string
	fetch string
}

var sources = map[Kind]source{
	KindVideo: {
		list: `
		SELECT 'video' AS content_kind, v.video_id AS content_id, v.module_id, m.course_id, v.title, v.url, '' AS body, v.created_at
		FROM videos v JOIN modules m ON m.module_id = v.module_id
		WHERE m.course_id = :course_id
		ORDER BY v.created_at`,
		fetch: `
		SELECT 'video' AS content_kind, v.video_id AS content_id, v.module_id, m.course_id, v.title, v.url, '' AS body, v.created_at
		FROM videos v JOIN modules m ON m.module_id = v.module_id
		WHERE v.video_id = :id`,
	},
	KindText: {
		list: `
		SELECT 'text' AS content_kind, t.text_id AS content_id, t.module_id, m.course_id, t.title, '' AS url, t.body, t.created_at
		FROM text_contents t JOIN modules m ON m.module_id = t.module_id
		WHERE m.course_id = :course_id
		ORDER BY t.created_at`,
		fetch: `
		SELECT 'text' AS content_kind, t.text_id AS content_id, t.module_id, m.course_id, t.title, '' AS url, t.body, t.created_at
		FROM text_contents t JOIN modules m ON m.module_id = t.module_id
		WHERE t.text_id = :id`,
	},
}

func CreateVideo(ctx context.Context, db sqlx.ExtContext, v Video) error {
	const q = `
	INSERT INTO videos (video_id, module_id, title, url, created_at)
	VALUES (:video_id, :module_id, :title, :url, :created_at)`

	if _, err := database.NamedExecContext(ctx, db, q, v); err != nil {
		return fmt.Errorf("inserting video: %w", err)
	}
	return nil
}

func CreateText(ctx context.Context, db sqlx.ExtContext, t Text) error {
	const q = `
	INSERT INTO text_contents (text_id, module_id, title, body, created_at)
	VALUES (:text_id, :module_id, :title, :body, :created_at)`

	if _, err := database.NamedExecContext(ctx, db, q, t); err != nil {
		return fmt.Errorf("inserting text: %w", err)
	}
	return nil
}

// Resolve loads the item ref points to. ErrUnknownKind is returned for
// kinds without a table, database.ErrDBNotFound for missing ids.
func Resolve(ctx context.Context, db sqlx.ExtContext, ref Ref) (Item, error) {
	src, ok := sources[ref.Kind]
	if !ok {
		return Item{}, fmt.Errorf("resolving %q: %w", ref.Kind, ErrUnknownKind)
	}

	var it Item
	if err := database.NamedQueryStruct(ctx, db, src.fetch, map[string]any{"id": ref.ID}, &it); err != nil {
		return Item{}, fmt.Errorf("selecting %s[%s]: %w", ref.Kind, ref.ID, err)
	}
	return it, nil
}

// QueryByCourse returns every item of a course, kinds in Kinds order and
// each kind by creation time. Callers group them by ModuleID.
func QueryByCourse(ctx context.Context, db sqlx.ExtContext, courseID string) ([]Item, error) {
	var all []Item
	for _, k := range Kinds {
		var items []Item
		if err := database.NamedQuerySlice(ctx, db, sources[k].list, map[string]any{"course_id": courseID}, &items); err != nil {
			return nil, fmt.Errorf("selecting %s items of course[%s]: %w", k, courseID, err)
		}
		all = append(all, items...)
	}

	if all == nil {
		all = []Item{}
	}
	return all, nil
}
