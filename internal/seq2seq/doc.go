// Package seq2seq implements an encoder-decoder sequence classifier built
// from dense networks and scalar recurrent cells.
//
// Data flow for one request:
//
//	text ──tokenizer──▶ ids ──Vectorize──▶ 32-wide vectors
//	  ──Encoder──▶ Memory ──Decoder.Seed──▶ Decoder.Decode ──▶ label distribution
//
// The encoder passes every vector through its embedding network and steps
// a Layers x Depth grid of recurrent cells. The final state of every cell is
// the Memory. The decoder copies that Memory into its own grid, runs a
// single start vector (id 0) through its embedding network and grid, and
// classifies the final layer's short-term memories.
//
// Only the classifier learns: Backpropagate leaves the embedding networks
// and the cell parameters unchanged.
//
// Example:
//
//	model, err := seq2seq.New(seq2seq.Config{
//	    Layers:     1,
//	    Depth:      4,
//	    Labels:     []string{"question", "statement"},
//	    Vocabulary: tokenizer.NewStore("./vocabulary"),
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	dist, err := model.Respond("is the cat sat", "en")
//	label := model.Label(dist)
package seq2seq
