package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	colorize "github.com/fatih/color"
	"github.com/spf13/cobra"

	"idoubtit-lite/card"
	"idoubtit-lite/doubt"
	"idoubtit-lite/doubt/npc"
	"idoubtit-lite/internal/config"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play an interactive round against NPC opponents",
	Long: `Play deals a full deck and runs one round with you in seat 0.
On your turn enter the pick numbers of the cards to play and the rank to
claim, e.g. "1 2 Queen". After an opponent plays you may call "I doubt it".

Preferences (wacky deck, difficulty, opponent count) come from your config
file and can be overridden per round with flags.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}
		applyFlagOverrides(cmd, cfg)

		level, err := doubt.ParseDifficulty(cfg.Difficulty)
		if err != nil {
			return err
		}
		seed, _ := cmd.Flags().GetInt64("seed")
		name, _ := cmd.Flags().GetString("name")
		if name == "" {
			name = "You"
		}

		registry := npc.NewRegistry()
		if cfg.Personas != "" {
			if err := registry.LoadFromFile(cfg.Personas); err != nil {
				return err
			}
		}
		table := registry.PickTable(level, cfg.Opponents, seed)

		seats := []doubt.SeatConfig{{Name: name, Human: true, Level: level}}
		for i, p := range table {
			seats = append(seats, doubt.SeatConfig{
				Name:   p.Name,
				Level:  p.Level,
				Policy: npc.NewRulePolicy(p.Level, p.Brain, seed+int64(i)+1),
			})
		}

		game, err := doubt.NewRound(doubt.Config{Seats: seats, Wacky: cfg.Wacky, Seed: seed})
		if err != nil {
			return err
		}

		fmt.Printf("Dealt %d seats", len(seats))
		if cfg.Wacky {
			fmt.Print(colorize.HiMagentaString(" (wacky deck, jokers wild)"))
		}
		fmt.Println()
		for _, p := range table {
			fmt.Printf("  %s — %s\n", colorize.HiCyanString(p.Name), p.Tagline)
		}

		return runInteractiveRound(game, seats)
	},
}

func init() {
	rootCmd.AddCommand(playCmd)

	playCmd.Flags().Bool("wacky", false, "Use the 54-card deck with jokers wild")
	playCmd.Flags().String("difficulty", "", "NPC difficulty: easy, medium or hard")
	playCmd.Flags().Int("opponents", 0, "Number of NPC opponents (1-7)")
	playCmd.Flags().Int64("seed", 0, "Random seed (0 for a random round)")
	playCmd.Flags().String("name", "", "Your display name")
}

func applyFlagOverrides(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("wacky") {
		cfg.Wacky, _ = cmd.Flags().GetBool("wacky")
	}
	if cmd.Flags().Changed("difficulty") {
		cfg.Difficulty, _ = cmd.Flags().GetString("difficulty")
	}
	if cmd.Flags().Changed("opponents") {
		cfg.Opponents, _ = cmd.Flags().GetInt("opponents")
	}
}

func runInteractiveRound(game *doubt.Game, seats []doubt.SeatConfig) error {
	reader := bufio.NewReader(os.Stdin)

	for !game.IsRoundOver() {
		if game.CurrentIsNPC() {
			step, err := game.AdvanceNPC()
			if err != nil {
				return err
			}
			printNPCStep(game, seats, step)
			if step.Play != nil && !game.IsRoundOver() {
				if err := offerHumanDoubt(game, seats, reader); err != nil {
					return err
				}
			}
			continue
		}
		if err := humanTurn(game, seats, reader); err != nil {
			if errors.Is(err, errQuit) {
				fmt.Println("Round abandoned.")
				return nil
			}
			return err
		}
	}

	winner := game.Winner()
	if winner == 0 {
		fmt.Println(colorize.HiGreenString("You emptied your hand first — you win!"))
	} else if winner != doubt.InvalidSeat {
		fmt.Printf("%s wins the round.\n", colorize.HiCyanString(seats[winner].Name))
	}
	return nil
}

var errQuit = errors.New("quit")

func humanTurn(game *doubt.Game, seats []doubt.SeatConfig, reader *bufio.Reader) error {
	claim := game.PendingClaim()
	hand := game.HandOf(0)

	fmt.Println()
	fmt.Println(renderPile(claim.Rank.String(), claim.Total))
	fmt.Printf("Your hand: %s\n", renderHand(hand))

	if claim.Total > 0 && claim.Claimant != 0 {
		fmt.Printf("%s claims %d x %s. Call \"I doubt it\"? [y/N] ",
			seats[claim.Claimant].Name, claim.Entries[len(claim.Entries)-1].Count, claim.Rank)
		line, err := readLine(reader)
		if err != nil {
			return err
		}
		if strings.EqualFold(line, "y") || strings.EqualFold(line, "yes") {
			res, err := game.CallDoubt(0)
			if err != nil {
				return err
			}
			printDoubtResult(seats, res, 0)
			return nil
		}
	}

	for {
		fmt.Print("Play (pick numbers then rank, e.g. \"1 2 Queen\", or q to quit): ")
		line, err := readLine(reader)
		if err != nil {
			return err
		}
		if strings.EqualFold(line, "q") || strings.EqualFold(line, "quit") {
			return errQuit
		}
		cards, rank, err := parsePlayInput(line, hand, claim)
		if err != nil {
			fmt.Println(colorize.RedString(err.Error()))
			continue
		}
		res, err := game.PlayCards(0, cards, rank)
		if err != nil {
			fmt.Println(colorize.RedString(err.Error()))
			continue
		}
		fmt.Printf("You play %d card(s) claiming %s (pile %d).\n", res.NumCards, res.Claim, res.PileSize)
		return nil
	}
}

// parsePlayInput reads "1 3 Queen": pick numbers into the sorted hand,
// final token the claimed rank. The rank may be omitted when a claim
// window is already open.
func parsePlayInput(line string, hand []card.Card, claim doubt.ClaimSnapshot) ([]card.Card, card.Rank, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, card.RankInvalid, fmt.Errorf("enter at least one pick number")
	}

	rank := card.RankInvalid
	if r, err := card.ParseRank(fields[len(fields)-1]); err == nil {
		rank = r
		fields = fields[:len(fields)-1]
	} else if claim.Total > 0 {
		rank = claim.Rank
	} else {
		return nil, card.RankInvalid, fmt.Errorf("opening play needs a claimed rank")
	}

	sorted := sortedHand(hand)
	var cards []card.Card
	for _, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil || n < 1 || n > len(sorted) {
			return nil, card.RankInvalid, fmt.Errorf("bad pick number %q", f)
		}
		cards = append(cards, sorted[n-1])
	}
	return cards, rank, nil
}

func offerHumanDoubt(game *doubt.Game, seats []doubt.SeatConfig, reader *bufio.Reader) error {
	claim := game.PendingClaim()
	if claim.Total == 0 || claim.Claimant == 0 {
		return nil
	}
	last := claim.Entries[len(claim.Entries)-1]
	fmt.Printf("Doubt %s's %d x %s? [y/N] ", seats[claim.Claimant].Name, last.Count, claim.Rank)
	line, err := readLine(reader)
	if err != nil {
		return err
	}
	if strings.EqualFold(line, "y") || strings.EqualFold(line, "yes") {
		res, err := game.CallDoubt(0)
		if err != nil {
			return err
		}
		printDoubtResult(seats, res, 0)
	}
	return nil
}

func printNPCStep(game *doubt.Game, seats []doubt.SeatConfig, step *doubt.NPCStep) {
	switch {
	case step.Doubt != nil:
		printDoubtResult(seats, step.Doubt, step.Seat)
	case step.Play != nil:
		res := step.Play
		fmt.Printf("%s plays %d card(s) claiming %s (hand %d, pile %d).\n",
			colorize.HiCyanString(seats[res.Seat].Name), res.NumCards, res.Claim, res.HandSize, res.PileSize)
		if res.Emptied {
			fmt.Printf("%s is out of cards!\n", seats[res.Seat].Name)
		}
	}
}

func printDoubtResult(seats []doubt.SeatConfig, res *doubt.DoubtResult, caller int) {
	callerName := seats[caller].Name
	claimantName := seats[res.Claimant].Name
	if res.Succeeded {
		fmt.Printf("%s doubts %s — %s! %s was lying and takes %d card(s).\n",
			callerName, claimantName, colorize.HiGreenString("caught"), claimantName, len(res.CardsMoved))
	} else {
		fmt.Printf("%s doubts %s — %s. %s takes %d card(s).\n",
			callerName, claimantName, colorize.HiRedString("wrong"), callerName, len(res.CardsMoved))
	}
}

func readLine(reader *bufio.Reader) (string, error) {
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
