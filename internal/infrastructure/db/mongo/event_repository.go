package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/campusevent/campusevent-api/internal/core/domain"
)

const eventsCollection = "events"

// EventRepository implements ports.EventRepository using MongoDB.
type EventRepository struct {
	db DatabaseProvider
}

// NewEventRepository creates a new EventRepository.
func NewEventRepository(db DatabaseProvider) *EventRepository {
	return &EventRepository{db: db}
}

type mongoEvent struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"title"`
	Description string             `bson:"description,omitempty"`
	Date        time.Time          `bson:"date"`
	Time        string             `bson:"time,omitempty"`
	Location    string             `bson:"location"`
	Latitude    *float64           `bson:"latitude,omitempty"`
	Longitude   *float64           `bson:"longitude,omitempty"`
	WeatherInfo bson.M             `bson:"weather_info,omitempty"`
	CreatedBy   primitive.ObjectID `bson:"created_by"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

func (m *mongoEvent) toDomain() *domain.Event {
	e := &domain.Event{
		ID:          m.ID.Hex(),
		Title:       m.Title,
		Description: m.Description,
		Date:        m.Date.UTC(),
		Time:        m.Time,
		Location:    m.Location,
		Latitude:    m.Latitude,
		Longitude:   m.Longitude,
		CreatedBy:   m.CreatedBy.Hex(),
		CreatedAt:   m.CreatedAt.UTC(),
		UpdatedAt:   m.UpdatedAt.UTC(),
	}
	if m.WeatherInfo != nil {
		e.WeatherInfo = map[string]any(m.WeatherInfo)
	}
	return e
}

func (r *EventRepository) collection(ctx context.Context) (*mongo.Collection, error) {
	db, err := r.db.Database(ctx)
	if err != nil {
		return nil, err
	}
	return db.Collection(eventsCollection), nil
}

// Create inserts a new event document.
func (r *EventRepository) Create(ctx context.Context, e *domain.Event) (*domain.Event, error) {
	creator, err := primitive.ObjectIDFromHex(e.CreatedBy)
	if err != nil {
		return nil, fmt.Errorf("invalid creator id %q: %w", e.CreatedBy, err)
	}
	coll, err := r.collection(ctx)
	if err != nil {
		return nil, err
	}
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	doc := mongoEvent{
		ID:          primitive.NewObjectID(),
		Title:       e.Title,
		Description: e.Description,
		Date:        e.Date.UTC(),
		Time:        e.Time,
		Location:    e.Location,
		Latitude:    e.Latitude,
		Longitude:   e.Longitude,
		CreatedBy:   creator,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := coll.InsertOne(ctx, doc); err != nil {
		return nil, unavailable("insert event", err)
	}
	return doc.toDomain(), nil
}

// FindByID retrieves an event by its hex id.
func (r *EventRepository) FindByID(ctx context.Context, id string) (*domain.Event, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrEventNotFound
	}
	coll, err := r.collection(ctx)
	if err != nil {
		return nil, err
	}
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var me mongoEvent
	if err := coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&me); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrEventNotFound
		}
		return nil, unavailable("find event", err)
	}
	return me.toDomain(), nil
}

// List returns all events sorted by date ascending.
func (r *EventRepository) List(ctx context.Context) ([]*domain.Event, error) {
	coll, err := r.collection(ctx)
	if err != nil {
		return nil, err
	}
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	cur, err := coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "date", Value: 1}}))
	if err != nil {
		return nil, unavailable("list events", err)
	}
	defer cur.Close(ctx)

	var docs []mongoEvent
	if err := cur.All(ctx, &docs); err != nil {
		return nil, unavailable("decode events", err)
	}

	events := make([]*domain.Event, len(docs))
	for i := range docs {
		events[i] = docs[i].toDomain()
	}
	return events, nil
}

// Update applies patch and returns the updated document. Changing the
// location unsets the stored coordinates.
func (r *EventRepository) Update(ctx context.Context, id string, patch domain.EventPatch) (*domain.Event, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrEventNotFound
	}
	coll, err := r.collection(ctx)
	if err != nil {
		return nil, err
	}
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	set := bson.M{"updated_at": time.Now().UTC().Truncate(time.Millisecond)}
	if patch.Title != nil {
		set["title"] = *patch.Title
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if patch.Date != nil {
		set["date"] = patch.Date.UTC()
	}
	if patch.Time != nil {
		set["time"] = *patch.Time
	}
	update := bson.M{"$set": set}
	if patch.Location != nil {
		set["location"] = *patch.Location
		update["$unset"] = bson.M{"latitude": "", "longitude": ""}
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var me mongoEvent
	if err := coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&me); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrEventNotFound
		}
		return nil, unavailable("update event", err)
	}
	return me.toDomain(), nil
}

// Delete permanently removes an event.
func (r *EventRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrEventNotFound
	}
	coll, err := r.collection(ctx)
	if err != nil {
		return err
	}
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	res, err := coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return unavailable("delete event", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrEventNotFound
	}
	return nil
}

// SetCoordinates stores the geocoded position of an event. The write only
// matches while the event's location is the one that was geocoded.
func (r *EventRepository) SetCoordinates(ctx context.Context, id, location string, c *domain.Coordinates) error {
	return r.set(ctx, id, bson.M{"location": location}, bson.M{"latitude": c.Lat, "longitude": c.Lng})
}

// SetWeather stores the latest weather snapshot on an event.
func (r *EventRepository) SetWeather(ctx context.Context, id string, weather map[string]any) error {
	return r.set(ctx, id, nil, bson.M{"weather_info": weather})
}

func (r *EventRepository) set(ctx context.Context, id string, match, fields bson.M) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrEventNotFound
	}
	coll, err := r.collection(ctx)
	if err != nil {
		return err
	}
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	fields["updated_at"] = time.Now().UTC().Truncate(time.Millisecond)
	filter := bson.M{"_id": oid}
	for k, v := range match {
		filter[k] = v
	}
	res, err := coll.UpdateOne(ctx, filter, bson.M{"$set": fields})
	if err != nil {
		return unavailable("update event", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrEventNotFound
	}
	return nil
}
