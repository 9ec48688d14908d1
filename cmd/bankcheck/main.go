// Command bankcheck validates the embedded question banks and prints a
// short inventory. Run it after editing bank files.
package main

import (
	"fmt"
	"log"
	"os"

	"starbound/internal/quiz"
)

func main() {
	banks, err := quiz.LoadBanks()
	if err != nil {
		log.Printf("Bank validation failed: %v", err)
		os.Exit(1)
	}

	for _, b := range banks {
		maxScore := len(b.Questions) * quiz.PointsPerQuestion
		fmt.Printf("%s/%s: %d questions, max score %d\n",
			b.GameID, b.TestType, len(b.Questions), maxScore)
	}
	fmt.Printf("%d banks OK\n", len(banks))
}
