package services

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Udbhav-2025/udbhav-ht100ml011/internal/apperrors"
	"github.com/Udbhav-2025/udbhav-ht100ml011/internal/models"
)

// HistoryService persists prediction records in the predictions collection,
// one document per prediction call.
type HistoryService struct {
	collection *mongo.Collection
}

func NewHistoryService(client *mongo.Client, database, collection string) *HistoryService {
	return &HistoryService{
		collection: client.Database(database).Collection(collection),
	}
}

// PatientKey derives the per-doctor patient identity from the doctor's email
// and the normalized patient name. Two same-named patients of one doctor
// intentionally share a key and merge into one timeline.
func PatientKey(doctorEmail, patientName string) string {
	if doctorEmail == "" || strings.TrimSpace(patientName) == "" {
		return ""
	}
	return doctorEmail + "::" + strings.ToLower(strings.TrimSpace(patientName))
}

// Record appends one prediction record. Persistence is not part of the
// prediction's success contract: failures are logged and swallowed by the
// caller.
func (s *HistoryService) Record(ctx context.Context, record *models.PredictionRecord) error {
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}
	if _, err := s.collection.InsertOne(ctx, record); err != nil {
		return apperrors.Dependency("failed to store prediction record", err)
	}
	return nil
}

// ListForUser returns a user's records, newest first.
func (s *HistoryService) ListForUser(ctx context.Context, userID string) ([]models.PredictionRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := s.collection.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, apperrors.Dependency("Failed to load history", err)
	}
	defer cursor.Close(ctx)

	return decodeRecords(ctx, cursor)
}

// PatientsForDoctor groups the doctor's records by patient key and reports
// last visit and assessment count, most recent patient first.
func (s *HistoryService) PatientsForDoctor(ctx context.Context, doctorEmail string) ([]models.PatientSummary, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{
			{Key: "doctorId", Value: doctorEmail},
			{Key: "patientId", Value: bson.D{{Key: "$nin", Value: bson.A{nil, ""}}}},
		}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$patientId"},
			{Key: "patientName", Value: bson.D{{Key: "$first", Value: "$patientName"}}},
			{Key: "lastVisit", Value: bson.D{{Key: "$max", Value: "$created_at"}}},
			{Key: "assessmentCount", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "lastVisit", Value: -1}}}},
	}

	cursor, err := s.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, apperrors.Dependency("Failed to load patients", err)
	}
	defer cursor.Close(ctx)

	patients := make([]models.PatientSummary, 0)
	for cursor.Next(ctx) {
		var doc struct {
			ID              string     `bson:"_id"`
			PatientName     string     `bson:"patientName"`
			LastVisit       *time.Time `bson:"lastVisit"`
			AssessmentCount int        `bson:"assessmentCount"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, apperrors.Dependency("Failed to decode patient summary", err)
		}
		patients = append(patients, models.PatientSummary{
			PatientID:       doc.ID,
			PatientName:     doc.PatientName,
			LastVisit:       doc.LastVisit,
			AssessmentCount: doc.AssessmentCount,
		})
	}
	if err := cursor.Err(); err != nil {
		return nil, apperrors.Dependency("Failed to load patients", err)
	}
	return patients, nil
}

// PatientProfile returns one patient's full history plus summary stats.
func (s *HistoryService) PatientProfile(ctx context.Context, doctorEmail, patientID string) (*models.PatientProfile, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := s.collection.Find(ctx, bson.M{"doctorId": doctorEmail, "patientId": patientID}, opts)
	if err != nil {
		return nil, apperrors.Dependency("Failed to load patient profile", err)
	}
	defer cursor.Close(ctx)

	history, err := decodeRecords(ctx, cursor)
	if err != nil {
		return nil, err
	}

	profile := &models.PatientProfile{
		PatientID: patientID,
		History:   history,
		Stats:     models.PatientStats{AssessmentCount: len(history)},
	}
	// History is sorted newest first.
	if len(history) > 0 {
		profile.PatientName = history[0].PatientName
		last := history[0].CreatedAt
		first := history[len(history)-1].CreatedAt
		profile.Stats.LastVisit = &last
		profile.Stats.FirstVisit = &first
	}
	return profile, nil
}

// DeleteOwned removes one record if it belongs to the caller. A foreign or
// unknown id reports not found, never whose record it was.
func (s *HistoryService) DeleteOwned(ctx context.Context, itemID, userID string) error {
	oid, err := primitive.ObjectIDFromHex(itemID)
	if err != nil {
		return apperrors.Validation("Invalid id", err)
	}

	res, err := s.collection.DeleteOne(ctx, bson.M{"_id": oid, "userId": userID})
	if err != nil {
		return apperrors.Dependency("Failed to delete history item", err)
	}
	if res.DeletedCount == 0 {
		return apperrors.NotFound("Item not found")
	}
	return nil
}

// decodeRecords drains a cursor into PredictionRecords, mapping _id to the
// exported string ID.
func decodeRecords(ctx context.Context, cursor *mongo.Cursor) ([]models.PredictionRecord, error) {
	records := make([]models.PredictionRecord, 0)
	for cursor.Next(ctx) {
		var doc struct {
			ID                      primitive.ObjectID `bson:"_id"`
			models.PredictionRecord `bson:",inline"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, apperrors.Dependency("Failed to decode history record", err)
		}
		record := doc.PredictionRecord
		record.ID = doc.ID.Hex()
		records = append(records, record)
	}
	if err := cursor.Err(); err != nil {
		return nil, apperrors.Dependency("Failed to load history", err)
	}
	return records, nil
}
