package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"
	"runtime"
	"runtime/pprof"

	"github.com/tarstars/independent_weight/golang/indep_weight/iwl"
)

func decodeConfig(srcConfig string, out interface{}) {
	file, err := os.Open(srcConfig)
	iwl.HandleError(err)
	defer func() { iwl.HandleError(file.Close()) }()

	decoder := json.NewDecoder(file)
	iwl.HandleError(decoder.Decode(out))
}

type SearchConfig struct {
	FileNameDistribution string  `json:"filename_distribution"`
	FileNameResult       string  `json:"filename_result"`
	FileNameParams       string  `json:"filename_params"`
	Epsilon              float64 `json:"epsilon"`
	TieTolerance         float64 `json:"tie_tolerance"`
	ThreadsNum           int     `json:"threads_num"`
	SkipDegenerate       bool    `json:"skip_degenerate"`
	FigureType           string  `json:"figure_type"`
	PicturesDirectory    string  `json:"pictures_directory"`
	DumpPrefix           string  `json:"dump_prefix"`
}

func search(srcConfig string) {
	var searchConfig SearchConfig
	decodeConfig(srcConfig, &searchConfig)

	log.Print("\ttry to load distribution <", searchConfig.FileNameDistribution, ">")
	p, err := iwl.ReadDistributionNpy(searchConfig.FileNameDistribution)
	iwl.HandleError(err)

	marginals, err := p.Marginals()
	iwl.HandleError(err)
	log.Printf("dimension = %d, marginals = %.5f\n", p.Dimension(), marginals)

	result, err := iwl.Search(p, iwl.SearchParams{
		Epsilon:        searchConfig.Epsilon,
		TieTolerance:   searchConfig.TieTolerance,
		ThreadsNum:     searchConfig.ThreadsNum,
		SkipDegenerate: searchConfig.SkipDegenerate,
		PrintMessages:  true,
	})
	iwl.HandleError(err)
	log.Printf("weight = %.6f, configuration = %s, params = %.6f\n", result.Weight, result.Configuration, result.Params)
	if len(result.Maximizers) > 1 {
		log.Printf("%d maximizers share the optimum\n", len(result.Maximizers))
	}

	if searchConfig.FileNameResult != "" {
		iwl.HandleError(result.Save(searchConfig.FileNameResult))
	}
	if searchConfig.FileNameParams != "" && result.Params != nil {
		iwl.HandleError(iwl.WriteNpy(searchConfig.FileNameParams, result.Params))
	}
	if searchConfig.FigureType != "" {
		iwl.HandleError(result.RenderSearch(searchConfig.DumpPrefix, searchConfig.FigureType, searchConfig.PicturesDirectory))
	}
}

type GraphConfig struct {
	FileNameResult    string `json:"filename_result"`
	FigureType        string `json:"figure_type"`
	PicturesDirectory string `json:"pictures_directory"`
	DumpPrefix        string `json:"dump_prefix"`
}

func graph(srcConfig string) {
	var graphConfig GraphConfig
	decodeConfig(srcConfig, &graphConfig)

	result, err := iwl.LoadResult(graphConfig.FileNameResult)
	iwl.HandleError(err)
	iwl.HandleError(result.RenderSearch(graphConfig.DumpPrefix, graphConfig.FigureType, graphConfig.PicturesDirectory))
}

type SourceConfig struct {
	Params               []float64 `json:"params"`
	FileNameDistribution string    `json:"filename_distribution"`
}

func source(srcConfig string) {
	var sourceConfig SourceConfig
	decodeConfig(srcConfig, &sourceConfig)

	q := iwl.NewIndependentSource(sourceConfig.Params)
	iwl.HandleError(q.Validate())
	iwl.HandleError(iwl.WriteNpy(sourceConfig.FileNameDistribution, q))
}

func main() {
	runMode := flag.String("mode", "search", "you can select either 'search', 'graph' or 'source' modes")
	config := flag.String("config", "indep_weight_config.json", "a config file for the run of the program")
	memprofile := flag.String("memprofile", "", "write memory profile to `file`")

	flag.Parse()

	handler, ok := map[string]func(string){
		"search": search,
		"graph":  graph,
		"source": source,
	}[*runMode]
	if !ok {
		log.Fatalf("unknown mode %q", *runMode)
	}
	handler(*config)

	if *memprofile != "" {
		f, err := os.Create(*memprofile)
		iwl.HandleError(err)
		defer func() { iwl.HandleError(f.Close()) }()
		runtime.GC()
		if err := pprof.WriteHeapProfile(f); err != nil {
			log.Fatal("could not write memory profile: ", err)
		}
	}
}
