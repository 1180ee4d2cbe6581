package agent

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/etnz/taxlot"
	"github.com/etnz/taxlot/renderer"
	"google.golang.org/genai"
)

const model = "gemini-2.5-pro"

// creates the facilitator
func newFacilitator(experts ...*Expert) *Expert {
	return &Expert{
		Name:      "Facilitator",
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(experts)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			As a facilitator you are in charge of the conversation and solving the user's request.

			Learn about the expert's skill that you can get from the Tools to ask them questions.
			They are at your service and 100% dedicated to you, they keep context of your previous questions.

			The user is here primarily to understand the tax consequences of his asset disposals:
			realized gains and losses, their short or long term treatment, and wash sale rules.

			Devise a plan of questions to ask each expert and come up with the best response to the
			user's request. The user will assume that you know his ledger, check it first to
			understand which assets he holds.
		`}}},
		},
		Library: NewLibrary(experts),
	}
}

// NewAnalyst creates the market analyst expert. It grounds its answers with
// Google Search.
func NewAnalyst() *Expert {
	return &Expert{
		Name: "Analyst",
		Description: `This is an expert market analyst,
		very well aware of financial products, tax regulation and institutions,
		and of the latest news about companies and funds.
		Ask the Analyst whenever you need recent or grounding information.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{GoogleSearch: &genai.GoogleSearch{}},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			You are an expert in markets and tax regulation. You can search and find about anything
			related to financial institutions, companies, markets, funds and capital gains taxation.
			You leverage Google Search to ground your assertions in a solid truth.
				`}}},
		},
	}
}

// NewAccountant creates the accountant expert. It is the only expert with
// access to the user's ledger, through a small library of read-only tools.
func NewAccountant(ledgerFile, currency string) *Expert {
	lib := []Function{
		gainsReportFunc(ledgerFile, currency),
		openLotsFunc(ledgerFile, currency),
		pendingLossesFunc(ledgerFile, currency),
	}

	return &Expert{
		Name: "Accountant",
		Description: `This is the Accountant. He is in charge of reading the user's tax lot ledger.
		He can compute realized gains reports, list the open lots and their cost basis, and list
		the pending wash sale losses.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(lib)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
				You are an accountant in charge of the user's tax lot ledger.
				You know how to use the Tools to extract relevant information about the user's
				disposals and their tax treatment. You are part of a team of experts; yours is
				everything recorded in the ledger. Pardon their approximative language and figure
				out what they meant.

				Use the available tools to get information about the user's ledger
				  - realized gains and losses over a period
				  - open lots and their cost basis
				  - pending wash sale losses
			`}}},
		},
		Library: NewLibrary(lib),
	}
}

// Func implements a simple Function
type Func struct {
	// Declare this function
	Decl *genai.FunctionDeclaration
	// Call this function
	Func func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse
}

func (f *Func) Declaration() *genai.FunctionDeclaration { return f.Decl }
func (f *Func) Call(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
	return f.Func(ctx, id, args)
}

func errorResponse(id, name string, err error) *genai.FunctionResponse {
	return &genai.FunctionResponse{
		ID:   id,
		Name: name,
		Response: map[string]any{
			"error": err.Error(),
		},
	}
}

func outputResponse(id, name, output string) *genai.FunctionResponse {
	return &genai.FunctionResponse{
		ID:   id,
		Name: name,
		Response: map[string]any{
			"output": output,
		},
	}
}

// process replays the ledger file through a fresh processor.
func process(ledgerFile, currency string) (*taxlot.Processor, error) {
	f, err := os.Open(ledgerFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return taxlot.NewProcessor(nil), nil
		}
		return nil, fmt.Errorf("could not open ledger file %q: %w", ledgerFile, err)
	}
	defer f.Close()

	transactions, err := taxlot.DecodeTransactions(f)
	if err != nil {
		return nil, fmt.Errorf("could not decode ledger file %q: %w", ledgerFile, err)
	}
	cfg := taxlot.DefaultConfig()
	cfg.Currency = currency
	p := taxlot.NewProcessor(cfg)
	p.Process(transactions)
	return p, nil
}

// yearRange converts the optional 'year' argument into a reporting range,
// defaulting to the current year.
func yearRange(args map[string]any) (taxlot.Range, error) {
	rng := taxlot.Yearly.Range(taxlot.Today())
	iyear, hasYear := args["year"]
	if !hasYear {
		return rng, nil
	}
	syear, ok := iyear.(string)
	if !ok {
		return rng, fmt.Errorf("argument 'year' is not a string as expected but %T", iyear)
	}
	start, err := taxlot.ParseDate(syear + "-01-01")
	if err != nil {
		return rng, fmt.Errorf("argument 'year' must be a 4-digit year, got %q", syear)
	}
	return taxlot.Yearly.Range(start), nil
}

func gainsReportFunc(ledgerFile, currency string) Function {
	const name = "GainsReport"
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name: name,
			Description: `GainsReport computes the realized gains and losses over a tax year,
			per asset, split into short-term and long-term, with wash-sale disallowed losses.`,
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"year": {
						Type:        genai.TypeString,
						Description: "The 4-digit tax year to report on. The current year is the default.",
					},
				},
			},
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "A markdown-formatted realized gains report.",
			},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			rng, err := yearRange(args)
			if err != nil {
				return errorResponse(id, name, err)
			}
			p, err := process(ledgerFile, currency)
			if err != nil {
				return errorResponse(id, name, err)
			}
			return outputResponse(id, name, renderer.GainsMarkdown(p.Report(rng)))
		},
	}
}

func openLotsFunc(ledgerFile, currency string) Function {
	const name = "OpenLots"
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name: name,
			Description: `OpenLots lists the remaining open tax lots per asset, with their
			acquisition date, remaining quantity and cost basis per unit.`,
			Parameters: &genai.Schema{Type: genai.TypeObject},
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "A markdown-formatted table of all the open lots in the ledger.",
			},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			p, err := process(ledgerFile, currency)
			if err != nil {
				return errorResponse(id, name, err)
			}
			return outputResponse(id, name, renderer.LotsMarkdown(p.Ledger()))
		},
	}
}

func pendingLossesFunc(ledgerFile, currency string) Function {
	const name = "PendingWashSales"
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name: name,
			Description: `PendingWashSales lists the realized losses whose wash-sale window is
			still open, meaning a repurchase could still disallow them.`,
			Parameters: &genai.Schema{Type: genai.TypeObject},
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "A markdown-formatted table of pending wash sale losses.",
			},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			p, err := process(ledgerFile, currency)
			if err != nil {
				return errorResponse(id, name, err)
			}
			md := renderer.PendingMarkdown(p.Detector(), p.Ledger().Assets())
			if md == "" {
				md = "No pending wash sale losses."
			}
			return outputResponse(id, name, md)
		},
	}
}
