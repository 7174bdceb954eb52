package db

import (
	"encoding/json"
	"strconv"

	"github.com/TunaEngine/OcarinaArranger-sub000/constants"
	"github.com/TunaEngine/OcarinaArranger-sub000/model"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
)

func newClient() *dynamodb.DynamoDB {
	endpoint := constants.GetDynamoEndpoint()
	session, err := session.NewSession(&aws.Config{
		Region:   aws.String("localhost"),
		Endpoint: &endpoint,
	})
	if err != nil {
		panic("Could not create a new DynamoDB session because " + err.Error())
	}
	return dynamodb.New(session)
}

// PutImportReport stores the report for one imported file, keyed by its
// path. Issues go in as a JSON blob; the scalar summary fields stay queryable
// on their own.
func PutImportReport(filename string, report model.ImportReport) {
	issues, err := json.Marshal(report.Issues)
	if err != nil {
		panic("Could not marshal report issues because " + err.Error())
	}

	item := map[string]*dynamodb.AttributeValue{
		"PK":        {S: aws.String(filename)},
		"ReportId":  {S: aws.String(report.ID)},
		"Mode":      {S: aws.String(report.Mode)},
		"NumIssues": {N: aws.String(strconv.Itoa(len(report.Issues)))},
		"NumEvents": {N: aws.String(strconv.Itoa(report.NumEvents))},
		"Issues":    {S: aws.String(string(issues))},
	}

	client := newClient()
	input := &dynamodb.PutItemInput{
		TableName: aws.String(constants.GetReportTable()),
		Item:      item,
	}
	if _, err := client.PutItem(input); err != nil {
		panic("Error from DynamoDB: " + err.Error())
	}
}

// GetImportReports fetches stored reports for up to 10 filenames. Files
// never imported are simply absent from the result.
func GetImportReports(filenames []string) map[string]model.ImportReport {
	if len(filenames) > 10 {
		panic("Not supposed to pass in more than 10 filenames!")
	}

	res := make(map[string]model.ImportReport)

	if len(filenames) == 0 {
		return res
	}

	var keys []map[string]*dynamodb.AttributeValue
	for _, filename := range filenames {
		key := make(map[string]*dynamodb.AttributeValue)
		key["PK"] = &dynamodb.AttributeValue{
			S: aws.String(filename),
		}
		keys = append(keys, key)
	}

	client := newClient()
	input := &dynamodb.BatchGetItemInput{
		RequestItems: map[string]*dynamodb.KeysAndAttributes{
			constants.GetReportTable(): {Keys: keys},
		},
	}
	dbres, err := client.BatchGetItem(input)
	if err != nil {
		panic("Error from DynamoDB: " + err.Error())
	}

	for _, v := range dbres.Responses[constants.GetReportTable()] {
		var r model.ImportReport
		r.ID = *v["ReportId"].S
		r.Mode = *v["Mode"].S
		if v["NumEvents"].N != nil {
			n, _ := strconv.Atoi(*v["NumEvents"].N)
			r.NumEvents = n
		}
		if v["Issues"].S != nil {
			if err := json.Unmarshal([]byte(*v["Issues"].S), &r.Issues); err != nil {
				panic("Could not unmarshal stored issues because " + err.Error())
			}
		}
		res[*v["PK"].S] = r
	}

	return res
}
