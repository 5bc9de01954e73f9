package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"styleswipe_server/models"
	"styleswipe_server/utils"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// memoryPrefTable emulates the UserPreferences table: keyed on userId, with a
// deviceId GSI for the fallback lookup.
type memoryPrefTable struct {
	rows    map[string]map[string]types.AttributeValue
	puts    int
	updates int
}

func newMemoryPrefTable() *memoryPrefTable {
	return &memoryPrefTable{rows: make(map[string]map[string]types.AttributeValue)}
}

func (m *memoryPrefTable) seed(t *testing.T, pref models.UserPreference) {
	t.Helper()
	item, err := attributevalue.MarshalMap(pref)
	require.NoError(t, err)
	m.rows[pref.UserID] = item
}

func (m *memoryPrefTable) get(input *dynamodb.GetItemInput) (*dynamodb.GetItemOutput, error) {
	userID := input.Key["userId"].(*types.AttributeValueMemberS).Value
	row, ok := m.rows[userID]
	if !ok {
		return &dynamodb.GetItemOutput{}, nil
	}
	return &dynamodb.GetItemOutput{Item: row}, nil
}

func (m *memoryPrefTable) query(input *dynamodb.QueryInput) (*dynamodb.QueryOutput, error) {
	device := input.ExpressionAttributeValues[":device"].(*types.AttributeValueMemberS).Value
	out := &dynamodb.QueryOutput{}
	for _, row := range m.rows {
		if utils.ExtractString(row, "deviceId") == device {
			out.Items = append(out.Items, row)
		}
	}
	return out, nil
}

func (m *memoryPrefTable) put(input *dynamodb.PutItemInput) (*dynamodb.PutItemOutput, error) {
	m.puts++
	m.rows[utils.ExtractString(input.Item, "userId")] = input.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (m *memoryPrefTable) update(input *dynamodb.UpdateItemInput) (*dynamodb.UpdateItemOutput, error) {
	m.updates++
	userID := input.Key["userId"].(*types.AttributeValueMemberS).Value
	row, ok := m.rows[userID]
	if !ok {
		return nil, fmt.Errorf("no row for userId %q", userID)
	}
	row["preferenceText"] = input.ExpressionAttributeValues[":text"]
	row["analyzedAt"] = input.ExpressionAttributeValues[":analyzedAt"]
	row["updatedAt"] = input.ExpressionAttributeValues[":updatedAt"]
	return &dynamodb.UpdateItemOutput{Attributes: row}, nil
}

type fakeRecentSwipes struct {
	swipes []models.Swipe
	err    error
}

func (f *fakeRecentSwipes) GetRecentSwipes(context.Context, string, int) ([]models.Swipe, error) {
	return f.swipes, f.err
}

type fakeCardGetter struct {
	catalog map[string]models.Card
}

func (f *fakeCardGetter) GetCard(_ context.Context, cardID string) (*models.Card, error) {
	card, ok := f.catalog[cardID]
	if !ok {
		return nil, ErrItemNotFound
	}
	return &card, nil
}

type fakeAnalyzer struct {
	text    string
	err     error
	samples [][]SwipeSample
}

func (f *fakeAnalyzer) AnalyzeSwipes(_ context.Context, samples []SwipeSample) (string, error) {
	f.samples = append(f.samples, samples)
	return f.text, f.err
}

func swipeRun(n int, direction string) []models.Swipe {
	swipes := make([]models.Swipe, n)
	for i := range swipes {
		swipes[i] = models.Swipe{
			IdentityID: testIdentity.Key(),
			CardID:     fmt.Sprintf("card-%d", i+1),
			Direction:  direction,
		}
	}
	return swipes
}

func catalogFor(swipes []models.Swipe) *fakeCardGetter {
	catalog := make(map[string]models.Card, len(swipes))
	for _, swipe := range swipes {
		catalog[swipe.CardID] = models.Card{ID: swipe.CardID, Name: "card " + swipe.CardID}
	}
	return &fakeCardGetter{catalog: catalog}
}

func newPreferenceService(table *memoryPrefTable, recent *fakeRecentSwipes, cards *fakeCardGetter, model *fakeAnalyzer) *PreferenceService {
	api := &fakeDynamoAPI{
		getFn:    table.get,
		queryFn:  table.query,
		putFn:    table.put,
		updateFn: table.update,
	}
	return &PreferenceService{
		Dynamo:              &DynamoService{Client: api, Logger: zap.NewNop()},
		Swipes:              recent,
		Cards:               cards,
		Analyzer:            model,
		Logger:              zap.NewNop(),
		FirstAnalysisSwipes: 5,
		RecentSwipeLimit:    10,
	}
}

func TestFetchUserPreference_ByUserID(t *testing.T) {
	table := newMemoryPrefTable()
	table.seed(t, models.UserPreference{UserID: "user-1", PreferenceText: "#minimal"})
	svc := newPreferenceService(table, &fakeRecentSwipes{}, &fakeCardGetter{}, &fakeAnalyzer{})

	pref, err := svc.FetchUserPreference(context.Background(), "user-1", "")
	require.NoError(t, err)
	require.NotNil(t, pref)
	assert.Equal(t, "#minimal", pref.PreferenceText)
}

func TestFetchUserPreference_FallsBackToDeviceID(t *testing.T) {
	table := newMemoryPrefTable()
	table.seed(t, models.UserPreference{UserID: "someone-else", DeviceID: "device-9", PreferenceText: "#retro"})
	svc := newPreferenceService(table, &fakeRecentSwipes{}, &fakeCardGetter{}, &fakeAnalyzer{})

	pref, err := svc.FetchUserPreference(context.Background(), "user-1", "device-9")
	require.NoError(t, err)
	require.NotNil(t, pref)
	assert.Equal(t, "#retro", pref.PreferenceText)
}

func TestFetchUserPreference_AbsentIsNilNotError(t *testing.T) {
	svc := newPreferenceService(newMemoryPrefTable(), &fakeRecentSwipes{}, &fakeCardGetter{}, &fakeAnalyzer{})

	pref, err := svc.FetchUserPreference(context.Background(), "user-1", "device-1")
	require.NoError(t, err)
	assert.Nil(t, pref)
}

func TestAnalyzeFromSwipes_SkipsWhenPreferenceExists(t *testing.T) {
	table := newMemoryPrefTable()
	table.seed(t, models.UserPreference{UserID: testIdentity.UserID, PreferenceText: "#already"})
	model := &fakeAnalyzer{text: "#new"}
	svc := newPreferenceService(table, &fakeRecentSwipes{swipes: swipeRun(5, "like")}, catalogFor(swipeRun(5, "like")), model)

	text, err := svc.AnalyzeFromSwipes(context.Background(), testIdentity, false)
	require.NoError(t, err)

	assert.Equal(t, "#already", text)
	assert.Empty(t, model.samples, "existing preference must short-circuit the analysis")
}

func TestAnalyzeFromSwipes_RequiresExactSwipeCount(t *testing.T) {
	for _, n := range []int{4, 6} {
		swipes := swipeRun(n, "like")
		model := &fakeAnalyzer{text: "#new"}
		svc := newPreferenceService(newMemoryPrefTable(), &fakeRecentSwipes{swipes: swipes}, catalogFor(swipes), model)

		text, err := svc.AnalyzeFromSwipes(context.Background(), testIdentity, false)
		require.NoError(t, err)
		assert.Empty(t, text, "with %d swipes the first analysis is a no-op", n)
		assert.Empty(t, model.samples)
	}
}

func TestAnalyzeFromSwipes_FirstAnalysisSavesNewRow(t *testing.T) {
	table := newMemoryPrefTable()
	swipes := swipeRun(5, "like")
	model := &fakeAnalyzer{text: "You lean minimal.\n#minimal, #casual"}
	svc := newPreferenceService(table, &fakeRecentSwipes{swipes: swipes}, catalogFor(swipes), model)

	text, err := svc.AnalyzeFromSwipes(context.Background(), testIdentity, false)
	require.NoError(t, err)

	assert.Equal(t, model.text, text)
	require.Len(t, model.samples, 1)
	assert.Len(t, model.samples[0], 5)
	assert.Equal(t, 1, table.puts)
	assert.Zero(t, table.updates)

	saved, err := svc.FetchUserPreference(context.Background(), testIdentity.UserID, testIdentity.DeviceID)
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, model.text, saved.PreferenceText)
	assert.NotEmpty(t, saved.AnalyzedAt)
}

func TestAnalyzeFromSwipes_ReanalysisOverwritesRow(t *testing.T) {
	table := newMemoryPrefTable()
	table.seed(t, models.UserPreference{UserID: testIdentity.UserID, DeviceID: testIdentity.DeviceID, PreferenceText: "#old"})
	swipes := swipeRun(7, "nope")
	model := &fakeAnalyzer{text: "You actually like bold prints.\n#bold"}
	svc := newPreferenceService(table, &fakeRecentSwipes{swipes: swipes}, catalogFor(swipes), model)

	text, err := svc.AnalyzeFromSwipes(context.Background(), testIdentity, true)
	require.NoError(t, err)

	// Re-analysis ignores the exact-count gate and overwrites in place.
	assert.Equal(t, model.text, text)
	require.Len(t, model.samples, 1)
	assert.Len(t, model.samples[0], 7)
	assert.Equal(t, 1, table.updates)
	assert.Zero(t, table.puts)

	saved, err := svc.FetchUserPreference(context.Background(), testIdentity.UserID, testIdentity.DeviceID)
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, model.text, saved.PreferenceText)
}

func TestAnalyzeFromSwipes_SkipsCardsWithoutCatalogRow(t *testing.T) {
	swipes := swipeRun(5, "like")
	cards := catalogFor(swipes[:3])
	model := &fakeAnalyzer{text: "#minimal"}
	svc := newPreferenceService(newMemoryPrefTable(), &fakeRecentSwipes{swipes: swipes}, cards, model)

	_, err := svc.AnalyzeFromSwipes(context.Background(), testIdentity, false)
	require.NoError(t, err)
	require.Len(t, model.samples, 1)
	assert.Len(t, model.samples[0], 3)
}

func TestAnalyzeFromSwipes_AnalyzerFailureSavesNothing(t *testing.T) {
	table := newMemoryPrefTable()
	swipes := swipeRun(5, "like")
	model := &fakeAnalyzer{err: errors.New("model unavailable")}
	svc := newPreferenceService(table, &fakeRecentSwipes{swipes: swipes}, catalogFor(swipes), model)

	_, err := svc.AnalyzeFromSwipes(context.Background(), testIdentity, false)
	require.Error(t, err)
	assert.Zero(t, table.puts)
	assert.Zero(t, table.updates)
}
