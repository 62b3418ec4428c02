package httpapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/football-stats/internal/domain/nlquery"
	"github.com/riskibarqy/football-stats/internal/domain/player"
	"github.com/riskibarqy/football-stats/internal/platform/logging"
	"github.com/riskibarqy/football-stats/internal/usecase"
)

type fakeQuestions struct {
	answer      func(ctx context.Context, question string) (usecase.Answer, error)
	answerBatch func(ctx context.Context, questions []string) ([]usecase.BatchAnswer, error)
}

func (f fakeQuestions) Answer(ctx context.Context, question string) (usecase.Answer, error) {
	return f.answer(ctx, question)
}

func (f fakeQuestions) AnswerBatch(ctx context.Context, questions []string) ([]usecase.BatchAnswer, error) {
	return f.answerBatch(ctx, questions)
}

type fakePlayers struct {
	list    func(ctx context.Context, limit int) ([]player.Player, error)
	profile func(ctx context.Context, playerID int64) (player.Profile, error)
	info    func(ctx context.Context, playerID int64) (player.AdditionalInfo, error)
	add     func(ctx context.Context, p player.Player, info *player.AdditionalInfo) (int64, error)
}

func (f fakePlayers) ListPlayers(ctx context.Context, limit int) ([]player.Player, error) {
	return f.list(ctx, limit)
}

func (f fakePlayers) GetProfile(ctx context.Context, playerID int64) (player.Profile, error) {
	return f.profile(ctx, playerID)
}

func (f fakePlayers) GetAdditionalInfo(ctx context.Context, playerID int64) (player.AdditionalInfo, error) {
	return f.info(ctx, playerID)
}

func (f fakePlayers) AddPlayerWithInfo(ctx context.Context, p player.Player, info *player.AdditionalInfo) (int64, error) {
	return f.add(ctx, p, info)
}

func newTestRouter(questions QuestionAnswerer, players PlayerCatalog) http.Handler {
	handler := NewHandler(questions, players, logging.NewNop())
	metrics := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("# metrics"))
	})
	return NewRouter(handler, metrics, logging.NewNop(), []string{"*"})
}

func serve(t *testing.T, router http.Handler, method, target, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var decoded map[string]any
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		if err := sonic.Unmarshal(rec.Body.Bytes(), &decoded); err != nil {
			t.Fatalf("decode response: %v; body=%s", err, rec.Body.String())
		}
	}
	return rec, decoded
}

func TestAskQuestion_Success(t *testing.T) {
	questions := fakeQuestions{answer: func(_ context.Context, question string) (usecase.Answer, error) {
		if question != "Who is the oldest goalkeeper?" {
			t.Fatalf("unexpected question: %q", question)
		}
		return usecase.Answer{
			InvocationID: "inv-1",
			Question:     question,
			SQL:          "SELECT first_name FROM players ORDER BY age DESC LIMIT 1",
			RowCount:     1,
			Text:         `[{"first_name":"Gianluigi"}]`,
			State:        nlquery.StateDone,
		}, nil
	}}

	rec, body := serve(t, newTestRouter(questions, fakePlayers{}), http.MethodPost, "/v1/questions", `{"question":"Who is the oldest goalkeeper?"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get(invocationIDHeader); got != "inv-1" {
		t.Fatalf("unexpected invocation header: %q", got)
	}
	data := body["data"].(map[string]any)
	if data["answer"] != `[{"first_name":"Gianluigi"}]` || data["row_count"] != float64(1) {
		t.Fatalf("unexpected data: %+v", data)
	}
}

func TestAskQuestion_MapsStageFailures(t *testing.T) {
	tests := []struct {
		stage      nlquery.Stage
		wantStatus int
	}{
		{stage: nlquery.StageSynthesis, wantStatus: http.StatusBadGateway},
		{stage: nlquery.StageExecution, wantStatus: http.StatusUnprocessableEntity},
		{stage: nlquery.StageFormatting, wantStatus: http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(string(tt.stage), func(t *testing.T) {
			questions := fakeQuestions{answer: func(_ context.Context, question string) (usecase.Answer, error) {
				return usecase.Answer{InvocationID: "inv-2", Question: question, State: nlquery.StateFailed, FailedStage: tt.stage},
					nlquery.NewFailure(tt.stage, errors.New("stage broke"))
			}}

			rec, body := serve(t, newTestRouter(questions, fakePlayers{}), http.MethodPost, "/v1/questions", `{"question":"q"}`)
			if rec.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d", tt.wantStatus, rec.Code)
			}
			if rec.Header().Get(invocationIDHeader) != "inv-2" {
				t.Fatalf("expected invocation id header on failure")
			}
			errObj := body["error"].(map[string]any)
			if !strings.Contains(errObj["message"].(string), "stage broke") {
				t.Fatalf("expected underlying message, got %v", errObj["message"])
			}
		})
	}
}

func TestAskQuestion_RejectsInvalidPayloads(t *testing.T) {
	router := newTestRouter(fakeQuestions{}, fakePlayers{})
	for _, payload := range []string{`{"question":""}`, `{"question":"q","extra":1}`, `not json`} {
		rec, _ := serve(t, router, http.MethodPost, "/v1/questions", payload)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("payload %s: expected 400, got %d", payload, rec.Code)
		}
	}
}

func TestAskQuestionBatch_ReportsFailuresInline(t *testing.T) {
	questions := fakeQuestions{answerBatch: func(_ context.Context, qs []string) ([]usecase.BatchAnswer, error) {
		if len(qs) != 2 {
			t.Fatalf("unexpected batch: %v", qs)
		}
		return []usecase.BatchAnswer{
			{Answer: usecase.Answer{InvocationID: "a", Question: qs[0], State: nlquery.StateDone, Text: "[]"}},
			{
				Answer: usecase.Answer{InvocationID: "b", Question: qs[1], State: nlquery.StateFailed, FailedStage: nlquery.StageExecution},
				Err:    nlquery.NewFailure(nlquery.StageExecution, errors.New("syntax error")),
			},
		}, nil
	}}

	rec, body := serve(t, newTestRouter(questions, fakePlayers{}), http.MethodPost, "/v1/questions/batch", `{"questions":["q1","q2"]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	items := body["data"].([]any)
	second := items[1].(map[string]any)
	if second["state"] != "failed" {
		t.Fatalf("unexpected state: %v", second["state"])
	}
	errObj := second["error"].(map[string]any)
	if errObj["stage"] != "execution" || errObj["status"] != "FAILED_PRECONDITION" {
		t.Fatalf("unexpected inline error: %+v", errObj)
	}
	if _, ok := items[0].(map[string]any)["error"]; ok {
		t.Fatalf("did not expect error on successful item")
	}
}

func TestListPlayers(t *testing.T) {
	players := fakePlayers{list: func(_ context.Context, limit int) ([]player.Player, error) {
		if limit != 3 {
			t.Fatalf("unexpected limit: %d", limit)
		}
		return []player.Player{{ID: 1, FirstName: "Luka", LastName: "Modric", CreatedAt: time.Unix(0, 0).UTC()}}, nil
	}}
	router := newTestRouter(fakeQuestions{}, players)

	rec, body := serve(t, router, http.MethodGet, "/v1/players?limit=3", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	items := body["data"].([]any)
	if len(items) != 1 || items[0].(map[string]any)["first_name"] != "Luka" {
		t.Fatalf("unexpected items: %+v", items)
	}

	rec, _ = serve(t, router, http.MethodGet, "/v1/players?limit=abc", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad limit, got %d", rec.Code)
	}
}

func TestGetPlayer(t *testing.T) {
	joined := time.Date(2012, 8, 27, 0, 0, 0, 0, time.UTC)
	players := fakePlayers{profile: func(_ context.Context, playerID int64) (player.Profile, error) {
		if playerID == 404 {
			return player.Profile{}, usecase.ErrNotFound
		}
		return player.Profile{
			Player:         player.Player{ID: playerID, FirstName: "Luka"},
			AdditionalInfo: &player.AdditionalInfo{PlayerID: playerID, CurrentClub: "Real Madrid", ClubJoinDate: &joined},
		}, nil
	}}
	router := newTestRouter(fakeQuestions{}, players)

	rec, body := serve(t, router, http.MethodGet, "/v1/players/10", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	info := body["data"].(map[string]any)["additional_info"].(map[string]any)
	if info["club_join_date"] != "2012-08-27" || info["current_club"] != "Real Madrid" {
		t.Fatalf("unexpected additional info: %+v", info)
	}

	if rec, _ := serve(t, router, http.MethodGet, "/v1/players/404", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if rec, _ := serve(t, router, http.MethodGet, "/v1/players/abc", ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestGetPlayerInfo(t *testing.T) {
	ends := time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC)
	players := fakePlayers{info: func(_ context.Context, playerID int64) (player.AdditionalInfo, error) {
		if playerID == 404 {
			return player.AdditionalInfo{}, usecase.ErrNotFound
		}
		return player.AdditionalInfo{PlayerID: playerID, Birthplace: "Zadar", CurrentClub: "Real Madrid", ContractEndDate: &ends, MarketValue: 10_000_000}, nil
	}}
	router := newTestRouter(fakeQuestions{}, players)

	rec, body := serve(t, router, http.MethodGet, "/v1/players/10/info", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	info := body["data"].(map[string]any)
	if info["birthplace"] != "Zadar" || info["contract_end_date"] != "2026-06-30" {
		t.Fatalf("unexpected additional info: %+v", info)
	}
	if _, ok := info["club_join_date"]; ok {
		t.Fatalf("expected missing join date to be omitted: %+v", info)
	}

	if rec, _ := serve(t, router, http.MethodGet, "/v1/players/404/info", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if rec, _ := serve(t, router, http.MethodGet, "/v1/players/x/info", ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestCreatePlayer_PartialWrite(t *testing.T) {
	players := fakePlayers{add: func(_ context.Context, p player.Player, info *player.AdditionalInfo) (int64, error) {
		if p.FirstName != "Jude" || info == nil || info.ContractEndDate == nil {
			t.Fatalf("unexpected input: %+v %+v", p, info)
		}
		return 42, &usecase.PartialWriteError{PlayerID: 42, Err: errors.New("insert additional info: check violation")}
	}}

	payload := `{"first_name":"Jude","last_name":"Bellingham","age":21,"position":"Midfielder","additional_info":{"current_club":"Real Madrid","contract_end_date":"2029-06-30","market_value":180000000}}`
	rec, body := serve(t, newTestRouter(fakeQuestions{}, players), http.MethodPost, "/v1/players", payload)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	errObj := body["error"].(map[string]any)
	if !strings.Contains(errObj["message"].(string), "player 42") {
		t.Fatalf("expected orphaned player id in message, got %v", errObj["message"])
	}
}

func TestCreatePlayer_Created(t *testing.T) {
	players := fakePlayers{add: func(_ context.Context, _ player.Player, info *player.AdditionalInfo) (int64, error) {
		if info != nil {
			t.Fatalf("expected no additional info")
		}
		return 7, nil
	}}

	rec, body := serve(t, newTestRouter(fakeQuestions{}, players), http.MethodPost, "/v1/players", `{"first_name":"Pedri","last_name":"Gonzalez","age":22,"position":"Midfielder"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if body["data"].(map[string]any)["player_id"] != float64(7) {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestRouter_HealthzAndMetrics(t *testing.T) {
	router := newTestRouter(fakeQuestions{}, fakePlayers{})

	if rec, _ := serve(t, router, http.MethodGet, "/healthz", ""); rec.Code != http.StatusOK {
		t.Fatalf("expected healthz 200, got %d", rec.Code)
	}
	rec, _ := serve(t, router, http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK || rec.Body.String() != "# metrics" {
		t.Fatalf("unexpected metrics response: %d %q", rec.Code, rec.Body.String())
	}
}

func TestRouter_RecoversPanics(t *testing.T) {
	players := fakePlayers{list: func(context.Context, int) ([]player.Player, error) {
		panic("repository exploded")
	}}

	rec, body := serve(t, newTestRouter(fakeQuestions{}, players), http.MethodGet, "/v1/players", "")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if body["error"].(map[string]any)["status"] != "INTERNAL" {
		t.Fatalf("unexpected body: %+v", body)
	}
}
