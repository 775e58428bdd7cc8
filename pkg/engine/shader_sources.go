package engine

// Shader sources for the scene renderer. Vertex layout for every mesh:
// location 0 position, 1 normal, 2 texture coordinates.

const objectVertexShader = `
#version 410 core
layout (location = 0) in vec3 position;
layout (location = 1) in vec3 normal;
layout (location = 2) in vec2 texCoords;

uniform mat4 projectionMatrix;
uniform mat4 viewMatrix;
uniform mat4 modelMatrix;
uniform mat3 normalMatrix;
uniform bool morph;
uniform float morphValue;

out vec3 fragPos;
out vec3 fragNormal;
out vec2 fragTexCoords;

void main() {
    vec3 pos = position;
    if (morph) {
        pos.y *= morphValue;
        pos.xz /= sqrt(morphValue);
    }
    vec4 world = modelMatrix * vec4(pos, 1.0);
    fragPos = world.xyz;
    fragNormal = normalize(normalMatrix * normal);
    fragTexCoords = texCoords;
    gl_Position = projectionMatrix * viewMatrix * world;
}
`

const objectFragmentShader = `
#version 410 core
struct Material {
    sampler2D diffuse;
    sampler2D specular;
    float shininess;
};

struct DirectLight {
    vec3 ambient;
    vec3 diffuse;
    vec3 specular;
    vec3 direction;
    float intensity;
};

struct PointLight {
    vec3 ambient;
    vec3 diffuse;
    vec3 specular;
    vec3 position;
    float linear;
    float quadratic;
    float intensity;
};

struct SpotLight {
    PointLight point;
    vec3 direction;
    float cutOff;
};

in vec3 fragPos;
in vec3 fragNormal;
in vec2 fragTexCoords;

uniform Material material;
uniform DirectLight direct;
uniform PointLight point;
uniform SpotLight spot;
uniform vec3 viewPos;
uniform bool fog;
uniform sampler2D fogTexture;
uniform vec2 resolution;
uniform bool glass;

out vec4 fragColor;

vec3 shade(vec3 ambient, vec3 diffuse, vec3 specular, vec3 lightDir, vec3 normal, vec3 viewDir, vec3 albedo, vec3 shine) {
    float diff = max(dot(normal, lightDir), 0.0);
    vec3 reflectDir = reflect(-lightDir, normal);
    float spec = pow(max(dot(viewDir, reflectDir), 0.0), material.shininess);
    return ambient * albedo + diffuse * diff * albedo + specular * spec * shine;
}

float attenuation(PointLight light) {
    float d = length(light.position - fragPos);
    return 1.0 / (1.0 + light.linear * d + light.quadratic * d * d);
}

void main() {
    vec4 texel = texture(material.diffuse, fragTexCoords);
    if (texel.a < 0.1) {
        discard;
    }
    vec3 albedo = texel.rgb;
    vec3 shine = texture(material.specular, fragTexCoords).rgb;
    vec3 normal = normalize(fragNormal);
    vec3 viewDir = normalize(viewPos - fragPos);

    vec3 color = direct.intensity * shade(direct.ambient, direct.diffuse, direct.specular,
        normalize(-direct.direction), normal, viewDir, albedo, shine);

    vec3 pointDir = normalize(point.position - fragPos);
    color += point.intensity * attenuation(point) * shade(point.ambient, point.diffuse, point.specular,
        pointDir, normal, viewDir, albedo, shine);

    vec3 spotDir = normalize(spot.point.position - fragPos);
    if (dot(spotDir, normalize(-spot.direction)) > spot.cutOff) {
        color += spot.point.intensity * attenuation(spot.point) * shade(vec3(0.0), spot.point.diffuse,
            spot.point.specular, spotDir, normal, viewDir, albedo, shine);
    }

    // keep a little light at night
    color = max(color, albedo * 0.05);

    if (fog) {
        vec3 fogColor = texture(fogTexture, gl_FragCoord.xy / resolution).rgb;
        float amount = clamp((length(viewPos - fragPos) - 2.0) / 18.0, 0.0, 1.0);
        color = mix(color, fogColor, amount);
    }

    fragColor = vec4(color, glass ? 0.6 : 1.0);
}
`

// The skybox is a screen quad; each fragment looks up the cube map along
// the view ray recovered with the inverse projection-view matrix.
const skyboxVertexShader = `
#version 410 core
layout (location = 0) in vec3 position;

uniform mat4 inversePVmatrix;

out vec3 texCoords;

void main() {
    vec4 farPlane = vec4(position.xy, 0.9999, 1.0);
    vec4 world = inversePVmatrix * farPlane;
    texCoords = world.xyz / world.w;
    gl_Position = farPlane;
}
`

const skyboxFragmentShader = `
#version 410 core
in vec3 texCoords;

uniform samplerCube skyboxSampler;
uniform float night;
uniform bool fog;

out vec4 fragColor;

void main() {
    vec3 color = texture(skyboxSampler, texCoords).rgb;
    color *= mix(1.0, 0.15, night);
    if (fog) {
        color = mix(color, vec3(0.6), 0.8);
    }
    fragColor = vec4(color, 1.0);
}
`

const spriteVertexShader = `
#version 410 core
layout (location = 0) in vec3 position;
layout (location = 2) in vec2 texCoords;

uniform mat4 projectionMatrix;
uniform mat4 viewMatrix;
uniform mat4 modelMatrix;
uniform int sizeX;
uniform int sizeY;
uniform int index;

out vec2 fragTexCoords;
out vec3 fragPos;

void main() {
    vec2 cell = vec2(index % sizeX, index / sizeX);
    fragTexCoords = (texCoords + cell) / vec2(sizeX, sizeY);
    vec4 world = modelMatrix * vec4(position, 1.0);
    fragPos = world.xyz;
    gl_Position = projectionMatrix * viewMatrix * world;
}
`

const spriteFragmentShader = `
#version 410 core
in vec2 fragTexCoords;
in vec3 fragPos;

uniform sampler2D tex;
uniform sampler2D fogTexture;
uniform bool fog;
uniform vec3 viewPos;
uniform vec2 resolution;

out vec4 fragColor;

void main() {
    vec4 color = texture(tex, fragTexCoords);
    if (color.a < 0.05) {
        discard;
    }
    if (fog) {
        vec3 fogColor = texture(fogTexture, gl_FragCoord.xy / resolution).rgb;
        float amount = clamp((length(viewPos - fragPos) - 2.0) / 18.0, 0.0, 1.0);
        color.rgb = mix(color.rgb, fogColor, amount);
    }
    fragColor = color;
}
`

const bannerVertexShader = `
#version 410 core
layout (location = 0) in vec3 position;
layout (location = 2) in vec2 texCoords;

uniform mat4 projectionMatrix;
uniform mat4 viewMatrix;
uniform mat4 modelMatrix;
uniform mat4 texModelMatrix;

out vec2 fragTexCoords;
out vec3 fragPos;

void main() {
    fragTexCoords = (texModelMatrix * vec4(texCoords, 0.0, 1.0)).xy;
    vec4 world = modelMatrix * vec4(position, 1.0);
    fragPos = world.xyz;
    gl_Position = projectionMatrix * viewMatrix * world;
}
`

const bannerFragmentShader = `
#version 410 core
in vec2 fragTexCoords;
in vec3 fragPos;

uniform sampler2D tex;
uniform sampler2D fogTexture;
uniform bool fog;
uniform vec3 viewPos;
uniform vec2 resolution;

out vec4 fragColor;

void main() {
    // outside the texture the banner is transparent
    if (any(lessThan(fragTexCoords, vec2(0.0))) || any(greaterThan(fragTexCoords, vec2(1.0)))) {
        discard;
    }
    vec4 color = texture(tex, fragTexCoords);
    if (fog) {
        vec3 fogColor = texture(fogTexture, gl_FragCoord.xy / resolution).rgb;
        float amount = clamp((length(viewPos - fragPos) - 2.0) / 18.0, 0.0, 1.0);
        color.rgb = mix(color.rgb, fogColor, amount);
    }
    fragColor = color;
}
`

// shaderSources maps program names to their vertex and fragment sources
var shaderSources = map[string][2]string{
	"object": {objectVertexShader, objectFragmentShader},
	"skybox": {skyboxVertexShader, skyboxFragmentShader},
	"sprite": {spriteVertexShader, spriteFragmentShader},
	"banner": {bannerVertexShader, bannerFragmentShader},
}
