package log

import "github.com/mitchellh/mapstructure"

// decodeFileAppenderOpt and decodeKafkaAppenderOpt decode the dynamic
// map[string]any appender options block into typed structs via
// mapstructure, the same pattern plugin configs use elsewhere in this
// repo.

func decodeFileAppenderOpt(raw map[string]interface{}) (FileAppenderOpt, error) {
	var opt FileAppenderOpt
	err := mapstructure.Decode(raw, &opt)
	return opt, err
}

func decodeKafkaAppenderOpt(raw map[string]interface{}) (KafkaAppenderOpt, error) {
	var opt KafkaAppenderOpt
	err := mapstructure.Decode(raw, &opt)
	return opt, err
}
