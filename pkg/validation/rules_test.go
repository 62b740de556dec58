package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platinummonkey/connpack/pkg/connector"
)

func TestValidateVendorPrefix(t *testing.T) {
	validator := New(nil, nil)
	props := &connector.Properties{}

	buf := &ViolationBuffer{}
	file := connector.File{Name: "connectionFields.xml", Type: connector.FileTypeConnectionFields}
	assert.True(t, validator.ValidateSingle(file, "testdata/modular_dialog_connector/connectionFields.xml", buf, props),
		"valid connection fields marked as invalid")
	assert.Zero(t, buf.Len())

	buf = &ViolationBuffer{}
	assert.False(t, validator.ValidateSingle(file, "testdata/broken_xml/connectionFields.xml", buf, props),
		"field with a bare vendor prefix marked as valid")
	require.Equal(t, 1, buf.Len())
	assert.Contains(t, buf.Violations()[0].Message, "vendor prefix")
}

func TestValidateRequiredAdvancedFieldHasDefaultValue(t *testing.T) {
	validator := New(nil, nil)
	props := &connector.Properties{}
	file := connector.File{Name: "connectionFields.xml", Type: connector.FileTypeConnectionFields}

	buf := &ViolationBuffer{}
	assert.False(t, validator.ValidateSingle(file, "testdata/advanced_required_missing_default/connectionFields.xml", buf, props),
		"required advanced field without default-value marked as valid")
	require.Equal(t, 1, buf.Len())
	assert.Contains(t, buf.Violations()[0].Message, "default-value")
}

func TestValidateDuplicateFieldsAbsent(t *testing.T) {
	validator := New(nil, nil)
	props := &connector.Properties{}
	file := connector.File{Name: "connectionFields.xml", Type: connector.FileTypeConnectionFields}

	buf := &ViolationBuffer{}
	assert.False(t, validator.ValidateSingle(file, "testdata/duplicate_fields/connectionFields.xml", buf, props),
		"duplicate field names marked as valid")

	// Rejected independently by the structural cardinality check and the
	// semantic duplicate-field rule.
	assert.Equal(t, 2, buf.Len())
}

func TestValidateInstanceURL(t *testing.T) {
	validator := New(nil, nil)
	props := &connector.Properties{}
	file := connector.File{Name: "connectionFields.xml", Type: connector.FileTypeConnectionFields}

	buf := &ViolationBuffer{}
	assert.True(t, validator.ValidateSingle(file, "testdata/oauth_connector/connectionFields.xml", buf, props),
		"instanceurl with authentication=oauth marked as invalid")

	buf = &ViolationBuffer{}
	assert.False(t, validator.ValidateSingle(file, "testdata/instanceurl/connectionFields.xml", buf, props),
		"instanceurl without authentication=oauth marked as valid")
	require.Equal(t, 1, buf.Len())
	assert.Contains(t, buf.Violations()[0].Message, "instanceurl")
}

func TestInferredConnectionResolverValidation(t *testing.T) {
	validator := New(nil, nil)
	file := connector.File{Name: "connectionResolver.xml", Type: connector.FileTypeConnectionResolver}

	props := &connector.Properties{UsesTCD: true}
	buf := &ViolationBuffer{}
	assert.False(t, validator.ValidateSingle(file, "testdata/inferred_connection_resolver/connectionResolver.xml", buf, props),
		"inferred resolver validated for a connector that uses a tcd")

	props.UsesTCD = false
	buf = &ViolationBuffer{}
	assert.True(t, validator.ValidateSingle(file, "testdata/inferred_connection_resolver/connectionResolver.xml", buf, props),
		"inferred resolver rejected for a connector without a tcd")
}

func TestAllFieldsInNormalizer(t *testing.T) {
	validator := New(nil, nil)
	file := connector.File{Name: "connectionResolver.xml", Type: connector.FileTypeConnectionResolver}
	props := &connector.Properties{
		ConnectionFields: []string{"server", "port", "v-custom", "username", "password", "v-custom2", "vendor1", "vendor2", "vendor3"},
	}

	buf := &ViolationBuffer{}
	assert.False(t, validator.ValidateSingle(file, "testdata/mcd_field_not_in_normalizer/connectionResolver.xml", buf, props),
		"incomplete normalizer marked as valid")
	require.Equal(t, 5, buf.Len())
	var missing []string
	for _, v := range buf.Violations() {
		missing = append(missing, v.Message)
	}
	assert.Contains(t, missing[0], "v-custom")

	buf = &ViolationBuffer{}
	assert.True(t, validator.ValidateSingle(file, "testdata/modular_dialog_connector/connectionResolver.xml", buf, props),
		"complete normalizer marked as invalid")
}

func TestNormalizerCompleteness_OrderIndependent(t *testing.T) {
	doc := parseDoc(t, `<tdr>
		<connection-normalizer>
			<required-attributes>
				<attribute-list>
					<attr>c</attr>
					<attr>a</attr>
					<attr>b</attr>
				</attribute-list>
			</required-attributes>
		</connection-normalizer>
	</tdr>`)
	props := &connector.Properties{ConnectionFields: []string{"a", "b", "c"}}

	assert.Empty(t, checkNormalizerCompleteness(doc, props))

	props.ConnectionFields = []string{"a", "b", "c", "d"}
	violations := checkNormalizerCompleteness(doc, props)
	require.Len(t, violations, 1)
	assert.Contains(t, violations[0].Message, `"d"`)
}

func TestCollectConnectionFields(t *testing.T) {
	validator := New(nil, nil)
	props := &connector.Properties{}
	file := connector.File{Name: "connectionFields.xml", Type: connector.FileTypeConnectionFields}

	buf := &ViolationBuffer{}
	require.True(t, validator.ValidateSingle(file, "testdata/modular_dialog_connector/connectionFields.xml", buf, props))
	assert.Equal(t,
		[]string{"server", "port", "v-custom", "username", "password", "v-custom2", "vendor1", "vendor2", "vendor3"},
		props.ConnectionFields)
}

func TestMarkUsesTCD(t *testing.T) {
	dialogDoc := parseDoc(t, `<connection-dialog class='pg'/>`)
	props := &connector.Properties{}

	assert.Empty(t, markUsesTCD(dialogDoc, props))
	assert.True(t, props.UsesTCD)
}

func TestSemanticRulesFor_ReadOnlyRoles(t *testing.T) {
	for _, ft := range []connector.FileType{
		connector.FileTypeManifest,
		connector.FileTypeDialect,
		connector.FileTypeResource,
		connector.FileTypeScript,
	} {
		assert.Empty(t, semanticRulesFor(ft), "role %s should have no semantic rules", ft)
	}
}

func TestRuleDisabledByConfig(t *testing.T) {
	config := DefaultConfig()
	config.Rules["instanceurl-conditional"] = false
	validator := New(config, nil)

	props := &connector.Properties{}
	file := connector.File{Name: "connectionFields.xml", Type: connector.FileTypeConnectionFields}

	buf := &ViolationBuffer{}
	assert.True(t, validator.ValidateSingle(file, "testdata/instanceurl/connectionFields.xml", buf, props),
		"disabled rule still produced violations")
}
