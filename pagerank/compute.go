package pagerank

import (
	"math"
	"sort"

	"github.com/mycok/wander/bsp"
	"github.com/mycok/wander/bsp/queue"
)

var _ queue.Message = (*ScoreMessage)(nil)

// ScoreMessage carries the share of a vertex score sent along one of its
// outgoing edges.
type ScoreMessage struct {
	Score float64
}

// Type returns the type of this message.
func (m ScoreMessage) Type() string { return "score" }

func makeComputeFunc(dampingFactor float64) bsp.ComputeFunc {
	return func(g *bsp.Graph, v *bsp.Vertex, msgIt queue.Iterator) error {
		step := g.SuperStep()
		pageCountAggregator := g.Aggregator(pageCountAcc)

		if step == 0 {
			pageCountAggregator.Aggregate(1)

			return nil
		}

		var (
			newScore  float64
			pageCount = float64(pageCountAggregator.Get().(int))
		)

		switch step {
		case 1:
			newScore = 1.0 / pageCount
		default:
			newScore = (1.0 - dampingFactor) / pageCount
			newScore += dampingFactor * sumScores(msgIt)

			// Mass of the dead ends seen in the previous step is spread
			// evenly over every page.
			resAgg := g.Aggregator(residualInputAccName(step))
			newScore += dampingFactor * resAgg.Get().(float64)
		}

		g.Aggregator(sadAcc).Aggregate(math.Abs(v.Value().(float64) - newScore))
		v.SetValue(newScore)

		numOutLinks := float64(len(v.Edges()))
		if numOutLinks == 0.0 {
			g.Aggregator(residualOutputAccName(step)).Aggregate(newScore / pageCount)

			return nil
		}

		return g.BroadcastToNeighbors(v, ScoreMessage{Score: newScore / numOutLinks})
	}
}

// sumScores adds the incoming scores in ascending order. Queue order depends
// on worker scheduling, the sorted sum does not.
func sumScores(msgIt queue.Iterator) float64 {
	var scores []float64
	for msgIt.Next() {
		scores = append(scores, msgIt.Message().(ScoreMessage).Score)
	}

	sort.Float64s(scores)

	var sum float64
	for _, s := range scores {
		sum += s
	}

	return sum
}

func residualOutputAccName(superStep int) string {
	if superStep%2 == 0 {
		return "residual_0"
	}

	return "residual_1"
}

func residualInputAccName(superStep int) string {
	if (superStep+1)%2 == 0 {
		return "residual_0"
	}

	return "residual_1"
}
