package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"recipe-nutrition/internal/core/nutrition"
	"recipe-nutrition/internal/infrastructure/config"
	"recipe-nutrition/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func calculatorHandler() Handler {
	calc := nutrition.NewCalculator()
	return func(_ context.Context, job Job) (*nutrition.RecipeNutrition, error) {
		return calc.CalculateRecipeNutrition(job.Ingredients, job.Servings)
	}
}

func TestManagerProcessesJobs(t *testing.T) {
	m := NewManager(config.QueueConfig{Workers: 3, MaxSize: 10}, calculatorHandler())
	defer m.Close()

	var wg sync.WaitGroup
	results := make([]Result, 5)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = m.Submit(context.Background(), Job{ID: "r", Ingredients: []string{"1 cup rice"}, Servings: 1})
		}(i)
	}
	wg.Wait()

	for _, res := range results {
		require.NoError(t, res.Error)
		require.NotNil(t, res.Nutrition)
		assert.Equal(t, 185.0, res.Nutrition.Ingredients[0].Grams)
	}
	assert.Equal(t, int64(5), m.Status().ProcessedCount)
}

func TestManagerReportsHandlerErrors(t *testing.T) {
	m := NewManager(config.QueueConfig{Workers: 1, MaxSize: 1}, calculatorHandler())
	defer m.Close()

	res := m.Submit(context.Background(), Job{ID: "bad", Ingredients: []string{"1 cup rice"}, Servings: 0})
	assert.ErrorIs(t, res.Error, nutrition.ErrInvalidServings)
	assert.Equal(t, "bad", res.ID)
	assert.Equal(t, int64(1), m.Status().FailedCount)
}

func TestManagerQueueFull(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{}, 1)
	m := NewManager(config.QueueConfig{Workers: 1, MaxSize: 1}, func(ctx context.Context, job Job) (*nutrition.RecipeNutrition, error) {
		started <- struct{}{}
		<-release
		return &nutrition.RecipeNutrition{}, nil
	})

	ctx := context.Background()
	_, err := m.Enqueue(ctx, Job{ID: "1"})
	require.NoError(t, err)
	<-started

	_, err = m.Enqueue(ctx, Job{ID: "2"})
	require.NoError(t, err)

	_, err = m.Enqueue(ctx, Job{ID: "3"})
	assert.ErrorIs(t, err, common.ErrQueueFull)

	close(release)
	m.Close()
}

func TestManagerRecoversPanic(t *testing.T) {
	m := NewManager(config.QueueConfig{Workers: 1, MaxSize: 1}, func(ctx context.Context, job Job) (*nutrition.RecipeNutrition, error) {
		panic("boom")
	})
	defer m.Close()

	res := m.Submit(context.Background(), Job{ID: "p"})
	require.Error(t, res.Error)

	var ce *common.CustomError
	assert.True(t, errors.As(res.Error, &ce))
	assert.Equal(t, common.ErrCodeInternalError, ce.Code)
}

func TestManagerCancelledContext(t *testing.T) {
	m := NewManager(config.QueueConfig{Workers: 1, MaxSize: 1}, calculatorHandler())
	defer m.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := m.Enqueue(ctx, Job{ID: "c"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestManagerClose(t *testing.T) {
	m := NewManager(config.QueueConfig{Workers: 2, MaxSize: 4}, calculatorHandler())
	m.Close()
	m.Close()

	_, err := m.Enqueue(context.Background(), Job{ID: "x"})
	assert.ErrorIs(t, err, common.ErrQueueClosed)
	assert.True(t, m.Status().Closed)
}

func TestSubmitTimeout(t *testing.T) {
	release := make(chan struct{})
	m := NewManager(config.QueueConfig{Workers: 1, MaxSize: 1}, func(ctx context.Context, job Job) (*nutrition.RecipeNutrition, error) {
		<-release
		return nil, nil
	})
	defer func() {
		close(release)
		m.Close()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	res := m.Submit(ctx, Job{ID: "slow"})
	assert.ErrorIs(t, res.Error, context.DeadlineExceeded)
}
