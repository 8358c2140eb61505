package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"math/rand"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"k8s.io/klog/v2"

	"kqbf/internal/kqbf"
	"kqbf/internal/ts"
)

// responseMargin — запас до дедлайна вызова на сборку и отправку ответа.
const responseMargin = 500 * time.Millisecond

var jsonHeader = map[string]string{
	"Content-Type": "application/json",
}

type solveResult struct {
	RunID        string  `json:"runId"`
	Value        float64 `json:"value"`
	Cost         float64 `json:"cost"`
	UsedCapacity float64 `json:"usedCapacity"`
	Elements     []int   `json:"elements"`
	Iterations   int     `json:"iterations"`
	TimeMs       int64   `json:"timeMs"`
	Stopped      any     `json:"stopped,omitempty"`
}

// requestConfig читает параметры поиска; отсутствующие поля берутся из DefaultConfig.
func requestConfig(req gjson.Result) ts.Config {
	cfg := ts.DefaultConfig()
	if v := req.Get("tenure"); v.Exists() {
		cfg.Tenure = int(v.Int())
	}
	if v := req.Get("iterations"); v.Exists() {
		cfg.Iterations = int(v.Int())
	}
	if v := req.Get("maxTimeSeconds"); v.Exists() {
		cfg.MaxTimeSeconds = int(v.Int())
	}
	if v := req.Get("probabilistic"); v.Exists() {
		cfg.Probabilistic = v.Bool()
	}
	if v := req.Get("diversification"); v.Exists() {
		cfg.Diversification = v.Bool()
	}
	return cfg
}

// searchContext завершает поиск раньше дедлайна вызова, чтобы лучшее
// найденное решение успело вернуться клиенту. Запас не больше половины
// оставшегося времени.
func searchContext(ctx context.Context) (context.Context, context.CancelFunc) {
	dl, ok := ctx.Deadline()
	if !ok {
		return context.WithCancel(ctx)
	}
	margin := min(responseMargin, time.Until(dl)/2)
	return context.WithDeadline(ctx, dl.Add(-margin))
}

func handler(ctx context.Context, event events.LambdaFunctionURLRequest) (events.LambdaFunctionURLResponse, error) {
	body := event.Body
	if event.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(body)
		if err != nil {
			return errResp(400, "invalid base64 body")
		}
		body = string(decoded)
	}

	if !gjson.Valid(body) {
		return errResp(400, "invalid JSON")
	}
	req := gjson.Parse(body)

	instDoc := req.Get("instance")
	if !instDoc.Exists() {
		return errResp(400, "missing instance field")
	}
	inst, err := kqbf.ParseJSONResult(instDoc)
	if err != nil {
		return errResp(400, err.Error())
	}

	solver, err := ts.New(requestConfig(req), rand.New(rand.NewSource(req.Get("seed").Int())))
	if err != nil {
		return errResp(400, err.Error())
	}

	runID := uuid.NewString()
	logger := klog.FromContext(ctx).WithValues("run", runID)
	ctx = klog.NewContext(ctx, logger)

	// Отмена по таймауту функции возвращает лучшее найденное решение
	searchCtx, cancel := searchContext(ctx)
	defer cancel()
	res, err := solver.Solve(searchCtx, inst)
	if err != nil && searchCtx.Err() == nil {
		logger.Error(err, "Ошибка табу-поиска")
		return errResp(500, err.Error())
	}

	resp := solveResult{
		RunID:        runID,
		Value:        res.Value,
		Cost:         res.Cost,
		UsedCapacity: res.UsedCapacity,
		Elements:     res.Elements,
		Iterations:   res.Iterations,
		TimeMs:       res.Duration.Milliseconds(),
		Stopped:      res.Meta["stopped"],
	}
	logger.Info("Запрос обработан", "n", inst.N, "value", res.Value, "iterations", res.Iterations)

	respJSON, _ := json.Marshal(resp)
	return events.LambdaFunctionURLResponse{StatusCode: 200, Headers: jsonHeader, Body: string(respJSON)}, nil
}

func errResp(code int, msg string) (events.LambdaFunctionURLResponse, error) {
	body, _ := json.Marshal(map[string]string{"error": msg})
	return events.LambdaFunctionURLResponse{StatusCode: code, Headers: jsonHeader, Body: string(body)}, nil
}

func main() {
	lambda.Start(handler)
}
