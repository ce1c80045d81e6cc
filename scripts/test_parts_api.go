package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/fatih/color"
)

const (
	baseURL = "http://localhost:3000/api"
)

// Pretty print JSON helper
func prettyPrint(v interface{}) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("%v\n", v)
		return
	}
	fmt.Println(string(b))
}

// Request helper
func sendRequest(method, url string, body interface{}) (*http.Response, []byte, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		bodyReader = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, baseURL+url, bodyReader)
	if err != nil {
		return nil, nil, err
	}

	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{} // No timeout: LLM-backed lookups can be slow
	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	return resp, respBody, err
}

func main() {
	color.Cyan("🚀 Starting Parts Lookup API Test\n")

	// 1. Image search
	color.Yellow("\n1. Image Search: 'bmw e46 brake caliper'")
	searchReq := map[string]interface{}{
		"query": "bmw e46 brake caliper",
		"limit": 3,
	}
	resp, body, err := sendRequest("POST", "/search/images", searchReq)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	var searchResp map[string]interface{}
	json.Unmarshal(body, &searchResp)
	// Concise printing: thumbnail payloads are large
	if data, ok := searchResp["data"].(map[string]interface{}); ok {
		if results, ok := data["results"].([]interface{}); ok {
			fmt.Printf("Results: %d\n", len(results))
		}
	} else {
		prettyPrint(searchResp)
	}

	// 2. VIN lookup
	color.Yellow("\n2. VIN Lookup: WBAAV33421FU91768")
	vinReq := map[string]interface{}{
		"vin": "WBAAV33421FU91768",
	}
	resp, body, err = sendRequest("POST", "/vin/lookup", vinReq)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	var vinResp map[string]interface{}
	json.Unmarshal(body, &vinResp)
	prettyPrint(vinResp)

	// 3. Resolve vehicle by description
	color.Yellow("\n3. Resolve Vehicle: BMW 3 Series 2001")
	resolveReq := map[string]interface{}{
		"vehicle": map[string]interface{}{
			"manufacturer": "BMW",
			"model":        "3 Series",
			"year":         2001,
			"country":      "germany",
		},
	}
	resp, body, err = sendRequest("POST", "/parts/resolve-vehicle", resolveReq)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	var resolveResp map[string]interface{}
	json.Unmarshal(body, &resolveResp)
	var vehicleID float64
	if data, ok := resolveResp["data"].(map[string]interface{}); ok {
		if id, ok := data["vehicle_id"].(float64); ok {
			vehicleID = id
			fmt.Printf("Resolved Vehicle ID: %.0f\n", vehicleID)
		}
	}

	// 4. Batch parts lookup
	color.Yellow("\n4. Batch Parts Lookup: 3 parts")
	if vehicleID == 0 {
		color.Red("Skipping parts lookup: vehicle resolution failed")
	} else {
		partsReq := map[string]interface{}{
			"vehicle": map[string]interface{}{
				"vehicle_id": int(vehicleID),
			},
			"parts": []string{"front brake pads", "oil filter", "flux capacitor"},
		}
		resp, body, err = sendRequest("POST", "/parts/lookup", partsReq)
		if err != nil {
			color.Red("Failed: %v", err)
		} else {
			color.Green("Status: %s", resp.Status)
			var partsResp map[string]interface{}
			json.Unmarshal(body, &partsResp)
			if data, ok := partsResp["data"].(map[string]interface{}); ok {
				if results, ok := data["results"].([]interface{}); ok {
					for i, r := range results {
						item, _ := r.(map[string]interface{})
						fmt.Printf("  [%d] %v -> %v (%v)\n", i, item["part_description"], item["status"], item["part_name"])
					}
				}
			} else {
				prettyPrint(partsResp)
			}
		}
	}

	// 5. History
	color.Yellow("\n5. Lookup History (kind=parts)")
	resp, body, err = sendRequest("GET", "/history/?kind=parts&limit=5", nil)
	if err != nil {
		color.Red("Failed: %v", err)
	} else {
		color.Green("Status: %s", resp.Status)
		var historyResp map[string]interface{}
		json.Unmarshal(body, &historyResp)
		prettyPrint(historyResp)
	}

	color.Cyan("\n✅ Test Sequence Complete")
}
